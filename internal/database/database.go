package database

import (
	"fmt"
	"log"

	"micronet/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Connected to database successfully")
	return db, nil
}

// schema is applied on startup. Statements are idempotent so boot is
// safe against an already-migrated database.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              BIGSERIAL PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	email           TEXT NOT NULL UNIQUE,
	about           TEXT NOT NULL DEFAULT '',
	password_hashed TEXT NOT NULL,
	photo_url       TEXT,
	photo_key       TEXT,
	last_login      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	date_joined     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS posts (
	id               BIGSERIAL PRIMARY KEY,
	user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	text             TEXT NOT NULL,
	edited           BOOLEAN NOT NULL DEFAULT FALSE,
	publication_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	last_modified    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_posts_publication ON posts (publication_date DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_posts_user ON posts (user_id);

CREATE TABLE IF NOT EXISTS post_likes (
	post_id    BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (post_id, user_id)
);

CREATE TABLE IF NOT EXISTS comments (
	id                BIGSERIAL PRIMARY KEY,
	post_id           BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
	user_id           BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	text              TEXT NOT NULL,
	reply             BOOLEAN NOT NULL DEFAULT FALSE,
	parent_comment_id BIGINT REFERENCES comments(id) ON DELETE CASCADE,
	publication_date  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_comments_post ON comments (post_id, publication_date DESC);

CREATE TABLE IF NOT EXISTS follows (
	follower_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	followee_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (follower_id, followee_id),
	CHECK (follower_id <> followee_id)
);
CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows (followee_id);
`

// Migrate applies the schema. The CHECK on follows is a database-level
// backstop for the no-self-follow invariant; the service layer rejects
// self-follows before any statement runs.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Println("Database schema applied")
	return nil
}
