package discovery

import "context"

// ProfileStore is the read-only view of the profile data the engine needs.
type ProfileStore interface {
	// GetProfile returns ErrProfileNotFound for unknown ids.
	GetProfile(ctx context.Context, id int64) (*Profile, error)
	// ListCandidates returns the raw discovery pool, unfiltered.
	ListCandidates(ctx context.Context) ([]*Profile, error)
}

// InteractionStore persists interactions and matches. CreateMatch must be
// atomic per unordered pair: of any number of concurrent calls for the same
// pair exactly one reports created == true.
type InteractionStore interface {
	UpsertInteraction(ctx context.Context, in *Interaction) error
	// GetInteraction returns ErrInteractionNotFound when the pair has no row.
	GetInteraction(ctx context.Context, actorID, targetID int64) (*Interaction, error)

	// FindMatch returns ErrMatchNotFound when the pair has not matched.
	FindMatch(ctx context.Context, userA, userB int64) (*Match, error)
	CreateMatch(ctx context.Context, m *Match) (created bool, err error)
	ListMatches(ctx context.Context, userID int64) ([]*Match, error)

	// ListActedTargets returns every target actorID has an interaction with.
	ListActedTargets(ctx context.Context, actorID int64) ([]int64, error)
}
