// internal/common/database/migrations.go
// Schema for the discovery engine tables

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id              BIGSERIAL PRIMARY KEY,
		username        VARCHAR(50) UNIQUE NOT NULL,
		display_name    VARCHAR(100) NOT NULL DEFAULT '',
		bio             TEXT NOT NULL DEFAULT '',
		avatar_url      TEXT,
		birth_date      VARCHAR(32),
		gender          VARCHAR(20) NOT NULL DEFAULT '',
		profile_type    VARCHAR(30) NOT NULL DEFAULT '',
		location        VARCHAR(100) NOT NULL DEFAULT '',
		latitude        DOUBLE PRECISION,
		longitude       DOUBLE PRECISION,
		interests       TEXT[] NOT NULL DEFAULT '{}',
		is_verified     BOOLEAN NOT NULL DEFAULT FALSE,
		is_premium      BOOLEAN NOT NULL DEFAULT FALSE,
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		followers_count INT NOT NULL DEFAULT 0,
		following_count INT NOT NULL DEFAULT 0,
		posts_count     INT NOT NULL DEFAULT 0,
		likes_received  INT NOT NULL DEFAULT 0,
		last_active_at  TIMESTAMPTZ,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_profiles_active ON profiles(is_active)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id         BIGSERIAL PRIMARY KEY,
		actor_id   BIGINT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		target_id  BIGINT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		action     VARCHAR(20) NOT NULL CHECK (action IN ('like', 'pass', 'super_like')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (actor_id, target_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_target ON interactions(target_id)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id         BIGSERIAL PRIMARY KEY,
		user1_id   BIGINT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		user2_id   BIGINT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		matched_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (user1_id < user2_id),
		UNIQUE (user1_id, user2_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON matches(user2_id)`,
}

// Migrate creates the tables if they do not exist yet
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d/%d: %w", i+1, len(migrations), err)
		}
	}
	return nil
}
