package database

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL database
func ConnectPostgres(postgresURI string) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	PostgresDB = db
	log.Println("✅ Connected to PostgreSQL")
	return db, nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS journal_entries (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			mood VARCHAR(64) NOT NULL,
			date_only VARCHAR(10) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Posts keep the display name for anonymous/legacy attribution and an optional author reference
		`CREATE TABLE IF NOT EXISTS community_posts (
			id UUID PRIMARY KEY,
			content TEXT NOT NULL,
			posted_by VARCHAR(255) NOT NULL DEFAULT 'Anonymous',
			author_id UUID REFERENCES users(id) ON DELETE SET NULL,
			likes INTEGER NOT NULL DEFAULT 0 CHECK (likes >= 0),
			upvoted_by TEXT[] NOT NULL DEFAULT '{}',
			display_timestamp VARCHAR(64) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS community_comments (
			id UUID PRIMARY KEY,
			post_id UUID NOT NULL REFERENCES community_posts(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			posted_by VARCHAR(255) NOT NULL DEFAULT 'Anonymous',
			display_timestamp VARCHAR(64) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_journal_entries_user_created ON journal_entries(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_community_posts_created_at ON community_posts(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_community_posts_author_id ON community_posts(author_id)`,
		`CREATE INDEX IF NOT EXISTS idx_community_comments_post_id ON community_comments(post_id, created_at)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
