package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"anime-catalog-service/internal/config"
)

// NewPostgres creates a new PostgreSQL connection and runs migrations.
func NewPostgres(cfg config.DBConfig) (*sql.DB, error) {
	db, err := Open(cfg.DSN())
	if err != nil {
		return nil, err
	}

	slog.Info("connected to PostgreSQL", "db", cfg.DBName)

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Open connects to PostgreSQL using a raw DSN and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)

	return db, nil
}

// Migrate creates the catalog tables if they do not exist yet.
func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS animes (
			id SERIAL PRIMARY KEY,
			mal_id INTEGER UNIQUE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			cover_url TEXT NOT NULL,
			rating TEXT DEFAULT '0.0',
			genres TEXT[]
		)`,
		`CREATE TABLE IF NOT EXISTS episodes (
			id SERIAL PRIMARY KEY,
			anime_id INTEGER NOT NULL REFERENCES animes(id) ON DELETE CASCADE,
			number INTEGER NOT NULL,
			title TEXT NOT NULL,
			video_url TEXT NOT NULL,
			thumbnail_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS watch_history (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			episode_id INTEGER NOT NULL REFERENCES episodes(id) ON DELETE CASCADE,
			watched_at TEXT NOT NULL,
			UNIQUE (user_id, episode_id)
		)`,
		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_episodes_anime_id ON episodes(anime_id)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_history_user_watched ON watch_history(user_id, watched_at DESC)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}

	slog.Info("database migrations completed")
	return nil
}
