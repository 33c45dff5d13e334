package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var postgresSchema = []struct {
	table string
	ddl   string
}{
	{"oauth_tokens", `CREATE TABLE IF NOT EXISTS oauth_tokens (
		id BIGSERIAL PRIMARY KEY,
		provider VARCHAR(64) NOT NULL UNIQUE,
		access_token TEXT NOT NULL,
		refresh_token TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`},
	{"contents", `CREATE TABLE IF NOT EXISTS contents (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT NULL,
		body TEXT NULL,
		published BOOLEAN NOT NULL DEFAULT FALSE,
		publish_on TIMESTAMPTZ NULL,
		url TEXT NULL,
		image_ref TEXT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`},
	{"scheduled_posts", `CREATE TABLE IF NOT EXISTS scheduled_posts (
		id BIGSERIAL PRIMARY KEY,
		content_id BIGINT NOT NULL REFERENCES contents(id) ON DELETE CASCADE,
		profile_id VARCHAR(128) NOT NULL,
		profile_name VARCHAR(255) NULL,
		profile_type VARCHAR(32) NULL,
		post_text TEXT NOT NULL,
		scheduled_time TIMESTAMP NOT NULL,
		image_ref TEXT NULL,
		pinterest_board VARCHAR(128) NULL,
		pinterest_url TEXT NULL,
		remote_post_id VARCHAR(128) NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`},
	{"scheduled_posts", `CREATE INDEX IF NOT EXISTS ix_scheduled_posts_content ON scheduled_posts(content_id)`},
}

// EnsureSchema creates the publisher tables if they are missing.
// Safe to call at startup.
func EnsureSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, s := range postgresSchema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("ensure table %s: %w", s.table, err)
		}
	}
	return nil
}
