package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecoTrackerAPI/internal/challenge"
)

// ChallengeEngine keeps the fixed challenge catalog's progress counters in
// step with the action log.
type ChallengeEngine struct {
	actions ActionLog
}

// Apply recounts every challenge whose predicate matches the appended
// action, then flips any challenge that reached its target. Completion is
// monotonic: once set it survives all further logging and only a full reset
// clears it. Call inside the append's transaction.
func (e ChallengeEngine) Apply(ctx context.Context, q Querier, actionName string, now time.Time) error {
	rows, err := q.Query(ctx, `SELECT id, match_kind, match_actions FROM challenges`)
	if err != nil {
		return fmt.Errorf("failed to fetch challenge predicates: %w", err)
	}

	type target struct {
		id    uuid.UUID
		match challenge.Predicate
	}
	var affected []target
	for rows.Next() {
		var t target
		if err := rows.Scan(&t.id, &t.match.Kind, &t.match.Actions); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan challenge predicate: %w", err)
		}
		if t.match.Matches(actionName) {
			affected = append(affected, t)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating challenge predicates: %w", err)
	}

	for _, t := range affected {
		count, err := e.actions.CountMatching(ctx, q, t.match)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `UPDATE challenges SET current_count = $1 WHERE id = $2`, count, t.id); err != nil {
			return fmt.Errorf("failed to update challenge progress: %w", err)
		}
	}

	// The completion sweep runs for all challenges regardless of which
	// predicates matched above.
	_, err = q.Exec(ctx, `
	UPDATE challenges
	SET completed = TRUE, completed_at = $1
	WHERE current_count >= target_count AND NOT completed
	`, now)
	if err != nil {
		return fmt.Errorf("failed to mark completed challenges: %w", err)
	}
	return nil
}

// List returns the catalog, active challenges first, then in creation order.
func (ChallengeEngine) List(ctx context.Context, q Querier) ([]*challenge.Challenge, error) {
	rows, err := q.Query(ctx, `
	SELECT id, seq, name, description, match_kind, match_actions,
	       target_count, current_count, completed, created_at, completed_at
	FROM challenges
	ORDER BY completed ASC, seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*challenge.Challenge
	for rows.Next() {
		c := &challenge.Challenge{}
		err := rows.Scan(
			&c.ID,
			&c.Seq,
			&c.Name,
			&c.Description,
			&c.Match.Kind,
			&c.Match.Actions,
			&c.TargetCount,
			&c.CurrentCount,
			&c.Completed,
			&c.CreatedAt,
			&c.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}

	if challenges == nil {
		challenges = []*challenge.Challenge{}
	}
	return challenges, nil
}

// Reset zeroes all progress but keeps the catalog rows themselves.
func (ChallengeEngine) Reset(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, `
	UPDATE challenges
	SET current_count = 0, completed = FALSE, completed_at = NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to reset challenges: %w", err)
	}
	return nil
}
