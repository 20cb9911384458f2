package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ecoTrackerAPI/internal/action"
	"ecoTrackerAPI/internal/challenge"
)

// ActionLog manages the append-only record of logged eco-actions.
type ActionLog struct{}

func validateAction(name string, points int) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "action", Reason: "action cannot be empty"}
	}
	if points <= 0 {
		return &ValidationError{Field: "points", Reason: "points must be positive"}
	}
	return nil
}

// Append validates and inserts a new entry. The entry is immutable once
// written.
func (ActionLog) Append(ctx context.Context, q Querier, name string, points int, now time.Time) (*action.Entry, error) {
	if err := validateAction(name, points); err != nil {
		return nil, err
	}

	entry := &action.Entry{
		ID:       uuid.New(),
		Action:   strings.TrimSpace(name),
		Points:   points,
		LoggedAt: now,
	}

	_, err := q.Exec(ctx, `
	INSERT INTO eco_actions (id, action, points, logged_at)
	VALUES ($1, $2, $3, $4)
	`, entry.ID, entry.Action, entry.Points, entry.LoggedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert action: %w", err)
	}

	return entry, nil
}

// List returns entries newest first. A limit <= 0 returns everything.
func (ActionLog) List(ctx context.Context, q Querier, limit int) ([]*action.Entry, error) {
	query := `
	SELECT id, action, points, logged_at
	FROM eco_actions
	ORDER BY logged_at DESC, id
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch action history: %w", err)
	}
	defer rows.Close()

	var entries []*action.Entry
	for rows.Next() {
		e := &action.Entry{}
		if err := rows.Scan(&e.ID, &e.Action, &e.Points, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("failed to scan action: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actions: %w", err)
	}

	if entries == nil {
		entries = []*action.Entry{}
	}
	return entries, nil
}

func (ActionLog) Count(ctx context.Context, q Querier) (int, error) {
	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM eco_actions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count actions: %w", err)
	}
	return count, nil
}

// CountMatching counts the entries a challenge predicate accepts.
func (l ActionLog) CountMatching(ctx context.Context, q Querier, p challenge.Predicate) (int, error) {
	if p.Kind == challenge.MatchAny {
		return l.Count(ctx, q)
	}

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM eco_actions WHERE action = ANY($1)`, p.Actions).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matching actions: %w", err)
	}
	return count, nil
}

// Clear removes every entry. Only the full reset calls this.
func (ActionLog) Clear(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, `DELETE FROM eco_actions`); err != nil {
		return fmt.Errorf("failed to clear actions: %w", err)
	}
	return nil
}
