package database

import (
	"context"
	"fmt"
)

// schema mirrors the JSON document: one row per user, one per (rater, rated) pair.
// Deleting a user cascades to every rating they gave or received.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             SERIAL PRIMARY KEY,
		username       TEXT NOT NULL UNIQUE,
		password       TEXT NOT NULL,
		player         TEXT NOT NULL,
		height         DOUBLE PRECISION NOT NULL,
		matches        INTEGER NOT NULL DEFAULT 0,
		goals          INTEGER NOT NULL DEFAULT 0,
		min_played     INTEGER NOT NULL DEFAULT 0,
		position       TEXT NOT NULL,
		preferred_foot TEXT NOT NULL,
		profile_pic_url TEXT,
		status         TEXT NOT NULL DEFAULT 'Ready',
		role           TEXT NOT NULL DEFAULT 'player'
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		id              SERIAL PRIMARY KEY,
		rater_id        INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		rated_player_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		score           INTEGER NOT NULL CHECK (score BETWEEN 1 AND 10),
		UNIQUE (rater_id, rated_player_id)
	)`,
}

// Migrate creates the users and ratings tables when missing
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
