package services

import (
	"context"
	"fmt"
	"time"

	"ecoTrackerAPI/internal/stats"
)

const dateLayout = "2006-01-02"

// localDay names the calendar day an instant falls on in loc. The streak
// transition and the daily series both key days through it, so both agree
// on what "today" means regardless of the database session's TimeZone.
func localDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// PointsAggregator derives point totals from the action log. It keeps two
// deliberately different 7-day figures: RollingWeekly is an exact trailing
// 168-hour sum used for the weekly cap, DailySeries is calendar-bucketed for
// the trend chart.
type PointsAggregator struct{}

func (PointsAggregator) Total(ctx context.Context, q Querier) (int, error) {
	var total int
	err := q.QueryRow(ctx, `SELECT COALESCE(SUM(points), 0) FROM eco_actions`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum points: %w", err)
	}
	return total, nil
}

// RollingWeekly sums points for entries logged within the exact trailing
// seven days.
func (PointsAggregator) RollingWeekly(ctx context.Context, q Querier, now time.Time) (int, error) {
	oneWeekAgo := now.AddDate(0, 0, -7)

	var total int
	err := q.QueryRow(ctx, `
	SELECT COALESCE(SUM(points), 0)
	FROM eco_actions
	WHERE logged_at >= $1
	`, oneWeekAgo).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum weekly points: %w", err)
	}
	return total, nil
}

// DailySeries returns per-day point sums for today and the preceding six
// calendar days, ascending, with zero buckets for inactive days. Grouping
// happens in Go on the instant's process-local date; a `logged_at::date`
// cast would bucket under the database session's TimeZone instead, and an
// entry logged just after local midnight could land on yesterday.
func (PointsAggregator) DailySeries(ctx context.Context, q Querier, now time.Time) ([]stats.DailyPoints, error) {
	loc := now.Location()
	y, m, d := now.AddDate(0, 0, -6).Date()
	windowStart := time.Date(y, m, d, 0, 0, 0, 0, loc)

	rows, err := q.Query(ctx, `
	SELECT logged_at, points
	FROM eco_actions
	WHERE logged_at >= $1
	`, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily points: %w", err)
	}
	defer rows.Close()

	dayPoints := make(map[string]int)
	for rows.Next() {
		var loggedAt time.Time
		var points int
		if err := rows.Scan(&loggedAt, &points); err != nil {
			return nil, fmt.Errorf("failed to scan daily points: %w", err)
		}
		dayPoints[localDay(loggedAt, loc)] += points
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily points: %w", err)
	}

	return fillDailySeries(dayPoints, now), nil
}

// fillDailySeries walks the 7-day window and zero-fills days with no rows.
func fillDailySeries(dayPoints map[string]int, now time.Time) []stats.DailyPoints {
	series := make([]stats.DailyPoints, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dateLayout)
		series = append(series, stats.DailyPoints{Date: day, Points: dayPoints[day]})
	}
	return series
}
