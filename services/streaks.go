package services

import (
	"context"
	"fmt"
	"time"

	"ecoTrackerAPI/internal/streak"
)

// StreakTracker maintains the singleton day-streak state incrementally, one
// transition per logged action.
type StreakTracker struct{}

// advanceStreak applies the day transition. It returns the new counters and
// whether the row needs writing; a second action on the same calendar day is
// a no-op. A date earlier than lastDate restarts the streak at 1 — that is
// deliberate, documented policy for backdated or clock-skewed input.
func advanceStreak(current, longest int, lastDate *time.Time, today time.Time) (int, int, bool) {
	if lastDate != nil {
		switch lastDate.Format(dateLayout) {
		case today.Format(dateLayout):
			return current, longest, false
		case today.AddDate(0, 0, -1).Format(dateLayout):
			current++
		default:
			current = 1
		}
	} else {
		current = 1
	}

	if current > longest {
		longest = current
	}
	return current, longest, true
}

// Record runs the streak transition for an action logged today. Call it
// inside the same transaction as the action append.
func (StreakTracker) Record(ctx context.Context, q Querier, today time.Time) error {
	var current, longest int
	var lastDate *time.Time
	err := q.QueryRow(ctx, `
	SELECT current_streak, longest_streak, last_action_date
	FROM streaks
	WHERE id = 1
	FOR UPDATE
	`).Scan(&current, &longest, &lastDate)
	if err != nil {
		return fmt.Errorf("failed to read streak state: %w", err)
	}

	current, longest, changed := advanceStreak(current, longest, lastDate, today)
	if !changed {
		return nil
	}

	_, err = q.Exec(ctx, `
	UPDATE streaks
	SET current_streak = $1, longest_streak = $2, last_action_date = $3, updated_at = NOW()
	WHERE id = 1
	`, current, longest, today.Format(dateLayout))
	if err != nil {
		return fmt.Errorf("failed to update streak state: %w", err)
	}
	return nil
}

func (StreakTracker) Read(ctx context.Context, q Querier) (*streak.State, error) {
	state := &streak.State{}
	err := q.QueryRow(ctx, `
	SELECT current_streak, longest_streak, last_action_date
	FROM streaks
	WHERE id = 1
	`).Scan(&state.CurrentStreak, &state.LongestStreak, &state.LastActionDate)
	if err != nil {
		return nil, fmt.Errorf("failed to read streak state: %w", err)
	}
	return state, nil
}

// Reset zeroes both counters and clears the last-action date.
func (StreakTracker) Reset(ctx context.Context, q Querier) error {
	_, err := q.Exec(ctx, `
	UPDATE streaks
	SET current_streak = 0, longest_streak = 0, last_action_date = NULL, updated_at = NOW()
	WHERE id = 1
	`)
	if err != nil {
		return fmt.Errorf("failed to reset streak state: %w", err)
	}
	return nil
}
