package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoTrackerAPI/internal/challenge"
)

// Querier is the slice of pgx shared by *pgxpool.Pool and pgx.Tx. Managers
// take it as a parameter so a single transaction can span the action append,
// the streak update and the challenge update.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS eco_actions (
		id UUID PRIMARY KEY,
		action TEXT NOT NULL,
		points INTEGER NOT NULL,
		logged_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_eco_actions_logged_at ON eco_actions (logged_at DESC)`,
	`CREATE TABLE IF NOT EXISTS challenges (
		id UUID PRIMARY KEY,
		seq INTEGER NOT NULL,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		match_kind TEXT NOT NULL,
		match_actions TEXT[],
		target_count INTEGER NOT NULL,
		current_count INTEGER NOT NULL DEFAULT 0,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS streaks (
		id INTEGER PRIMARY KEY,
		current_streak INTEGER NOT NULL DEFAULT 0,
		longest_streak INTEGER NOT NULL DEFAULT 0,
		last_action_date DATE,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// InitSchema creates the tables and seeds the fixed challenge catalog and
// the singleton streak row. Seeding only happens when the tables are empty,
// so existing progress survives restarts.
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	// Seeding runs in one transaction. An interrupted first boot must never
	// leave a partial catalog behind, because the empty-table check would
	// then skip seeding on every later startup.
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	seeded, err := seedDefaults(ctx, tx, time.Now())
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}

	if seeded > 0 {
		log.Printf("Seeded %d default challenges", seeded)
	}
	return nil
}

// seedDefaults inserts the singleton streak row and the challenge catalog
// into empty tables. It returns the number of challenges inserted; zero
// means the tables already held data and nothing was written.
func seedDefaults(ctx context.Context, q Querier, now time.Time) (int, error) {
	var streakRows int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM streaks`).Scan(&streakRows); err != nil {
		return 0, fmt.Errorf("failed to check streak row: %w", err)
	}
	if streakRows == 0 {
		_, err := q.Exec(ctx, `INSERT INTO streaks (id, current_streak, longest_streak) VALUES (1, 0, 0)`)
		if err != nil {
			return 0, fmt.Errorf("failed to seed streak row: %w", err)
		}
	}

	var challengeRows int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM challenges`).Scan(&challengeRows); err != nil {
		return 0, fmt.Errorf("failed to check challenge catalog: %w", err)
	}
	if challengeRows > 0 {
		return 0, nil
	}

	catalog := challenge.DefaultCatalog()
	for i, seed := range catalog {
		_, err := q.Exec(ctx, `
		INSERT INTO challenges (id, seq, name, description, match_kind, match_actions, target_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, uuid.New(), i+1, seed.Name, seed.Description, seed.Match.Kind, seed.Match.Actions, seed.Target, now)
		if err != nil {
			return 0, fmt.Errorf("failed to seed challenge %q: %w", seed.Name, err)
		}
	}
	return len(catalog), nil
}
