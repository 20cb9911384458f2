package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoTrackerAPI/internal/action"
	"ecoTrackerAPI/internal/challenge"
	"ecoTrackerAPI/internal/stats"
)

const defaultHistoryLimit = 20

// TrackerService composes the action log, points aggregator, streak tracker
// and challenge engine behind atomic log/read/reset operations. Construct it
// once per process and share it; each write runs in one pgx transaction so
// readers never see a streak or challenge update without its log entry.
type TrackerService struct {
	db         *pgxpool.Pool
	actions    ActionLog
	points     PointsAggregator
	streaks    StreakTracker
	challenges ChallengeEngine
}

func NewTrackerService(db *pgxpool.Pool) *TrackerService {
	return &TrackerService{db: db}
}

// LogAction validates the input, then appends the entry and updates streak
// and challenge state as one transaction. The returned totals are computed
// inside that same transaction.
func (s *TrackerService) LogAction(ctx context.Context, name string, points int) (*stats.LoggedResult, error) {
	if err := validateAction(name, points); err != nil {
		return nil, err
	}

	now := time.Now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, storageFail("log action", err)
	}
	defer tx.Rollback(ctx)

	entry, err := s.actions.Append(ctx, tx, name, points, now)
	if err != nil {
		return nil, storageFail("log action", err)
	}
	if err := s.streaks.Record(ctx, tx, now); err != nil {
		return nil, storageFail("log action", err)
	}
	if err := s.challenges.Apply(ctx, tx, entry.Action, now); err != nil {
		return nil, storageFail("log action", err)
	}

	result := &stats.LoggedResult{Entry: entry}
	if result.TotalPoints, err = s.points.Total(ctx, tx); err != nil {
		return nil, storageFail("log action", err)
	}
	if result.WeeklyPoints, err = s.points.RollingWeekly(ctx, tx, now); err != nil {
		return nil, storageFail("log action", err)
	}
	streakState, err := s.streaks.Read(ctx, tx)
	if err != nil {
		return nil, storageFail("log action", err)
	}
	result.CurrentStreak = streakState.CurrentStreak
	result.LongestStreak = streakState.LongestStreak

	if err := tx.Commit(ctx); err != nil {
		return nil, storageFail("log action", err)
	}

	log.Printf("Logged %q for %d points (streak %d)", entry.Action, entry.Points, result.CurrentStreak)
	return result, nil
}

// GetSnapshot reads all aggregate state within one read-only transaction so
// a single call is internally consistent.
func (s *TrackerService) GetSnapshot(ctx context.Context) (*stats.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, storageFail("get snapshot", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	snap := &stats.Snapshot{}

	if snap.TotalPoints, err = s.points.Total(ctx, tx); err != nil {
		return nil, storageFail("get snapshot", err)
	}
	if snap.WeeklyPoints, err = s.points.RollingWeekly(ctx, tx, now); err != nil {
		return nil, storageFail("get snapshot", err)
	}
	if snap.TotalActions, err = s.actions.Count(ctx, tx); err != nil {
		return nil, storageFail("get snapshot", err)
	}

	streakState, err := s.streaks.Read(ctx, tx)
	if err != nil {
		return nil, storageFail("get snapshot", err)
	}
	snap.CurrentStreak = streakState.CurrentStreak
	snap.LongestStreak = streakState.LongestStreak

	if snap.RecentActions, err = s.actions.List(ctx, tx, 5); err != nil {
		return nil, storageFail("get snapshot", err)
	}
	if snap.Challenges, err = s.challenges.List(ctx, tx); err != nil {
		return nil, storageFail("get snapshot", err)
	}
	for _, c := range snap.Challenges {
		if c.Completed {
			snap.CompletedChallenges++
		} else {
			snap.ActiveChallenges++
		}
	}
	if snap.DailySeries, err = s.points.DailySeries(ctx, tx, now); err != nil {
		return nil, storageFail("get snapshot", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storageFail("get snapshot", err)
	}
	return snap, nil
}

func (s *TrackerService) ListChallenges(ctx context.Context) ([]*challenge.Challenge, error) {
	challenges, err := s.challenges.List(ctx, s.db)
	if err != nil {
		return nil, storageFail("list challenges", err)
	}
	return challenges, nil
}

// ListHistory returns the newest entries. A non-positive limit falls back
// to the default page size.
func (s *TrackerService) ListHistory(ctx context.Context, limit int) ([]*action.Entry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	entries, err := s.actions.List(ctx, s.db, limit)
	if err != nil {
		return nil, storageFail("list history", err)
	}
	return entries, nil
}

// WeeklyPoints exposes the exact rolling 7-day sum callers use to enforce
// the weekly point cap before logging.
func (s *TrackerService) WeeklyPoints(ctx context.Context) (int, error) {
	total, err := s.points.RollingWeekly(ctx, s.db, time.Now())
	if err != nil {
		return 0, storageFail("weekly points", err)
	}
	return total, nil
}

// ResetAll clears the action log and zeroes streak and challenge progress in
// one transaction. The challenge catalog rows themselves survive.
func (s *TrackerService) ResetAll(ctx context.Context) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return storageFail("reset", err)
	}
	defer tx.Rollback(ctx)

	if err := s.actions.Clear(ctx, tx); err != nil {
		return storageFail("reset", err)
	}
	if err := s.challenges.Reset(ctx, tx); err != nil {
		return storageFail("reset", err)
	}
	if err := s.streaks.Reset(ctx, tx); err != nil {
		return storageFail("reset", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return storageFail("reset", err)
	}

	log.Println("All tracker data has been reset")
	return nil
}

// Healthy pings the underlying pool.
func (s *TrackerService) Healthy(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// IsValidation reports whether err is a rejected-input error rather than a
// storage failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
