package discovery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const profileColumns = `
	id, username, display_name, bio, avatar_url, birth_date, gender,
	profile_type, location, latitude, longitude, interests,
	is_verified, is_premium, is_active,
	followers_count, following_count, posts_count, likes_received,
	last_active_at, created_at`

type postgresProfileStore struct {
	db *sqlx.DB
}

func NewPostgresProfileStore(db *sqlx.DB) ProfileStore {
	return &postgresProfileStore{db: db}
}

func (r *postgresProfileStore) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	var p Profile
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresProfileStore) ListCandidates(ctx context.Context) ([]*Profile, error) {
	var profiles []*Profile
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY id`

	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return profiles, nil
}

type postgresInteractionStore struct {
	db *sqlx.DB
}

func NewPostgresInteractionStore(db *sqlx.DB) InteractionStore {
	return &postgresInteractionStore{db: db}
}

func (r *postgresInteractionStore) UpsertInteraction(ctx context.Context, in *Interaction) error {
	query := `
		INSERT INTO interactions (actor_id, target_id, action, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (actor_id, target_id)
		DO UPDATE SET action = EXCLUDED.action, created_at = EXCLUDED.created_at
		RETURNING id
	`
	return r.db.QueryRowxContext(ctx, query, in.ActorID, in.TargetID, in.Action, in.CreatedAt).Scan(&in.ID)
}

func (r *postgresInteractionStore) GetInteraction(ctx context.Context, actorID, targetID int64) (*Interaction, error) {
	var in Interaction
	query := `
		SELECT id, actor_id, target_id, action, created_at
		FROM interactions
		WHERE actor_id = $1 AND target_id = $2
	`
	err := r.db.GetContext(ctx, &in, query, actorID, targetID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInteractionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func (r *postgresInteractionStore) FindMatch(ctx context.Context, userA, userB int64) (*Match, error) {
	if userA > userB {
		userA, userB = userB, userA
	}

	var m Match
	query := `
		SELECT id, user1_id, user2_id, matched_at
		FROM matches
		WHERE user1_id = $1 AND user2_id = $2
	`
	err := r.db.GetContext(ctx, &m, query, userA, userB)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMatch leans on UNIQUE (user1_id, user2_id): a losing concurrent
// insert hits the conflict clause and returns no row.
func (r *postgresInteractionStore) CreateMatch(ctx context.Context, m *Match) (bool, error) {
	if m.User1ID > m.User2ID {
		m.User1ID, m.User2ID = m.User2ID, m.User1ID
	}

	query := `
		INSERT INTO matches (user1_id, user2_id, matched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user1_id, user2_id) DO NOTHING
		RETURNING id, matched_at
	`
	err := r.db.QueryRowxContext(ctx, query, m.User1ID, m.User2ID, m.MatchedAt).Scan(&m.ID, &m.MatchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *postgresInteractionStore) ListMatches(ctx context.Context, userID int64) ([]*Match, error) {
	matches := []*Match{}
	query := `
		SELECT id, user1_id, user2_id, matched_at
		FROM matches
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY matched_at DESC, id DESC
	`
	if err := r.db.SelectContext(ctx, &matches, query, userID); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresInteractionStore) ListActedTargets(ctx context.Context, actorID int64) ([]int64, error) {
	var ids []int64
	query := `SELECT target_id FROM interactions WHERE actor_id = $1`
	if err := r.db.SelectContext(ctx, &ids, query, actorID); err != nil {
		return nil, err
	}
	return ids, nil
}
