package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillDailySeriesZeroFills(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	series := fillDailySeries(map[string]int{
		"2026-03-04": 25,
		"2026-03-10": 10,
	}, now)

	assert.Len(t, series, 7)
	assert.Equal(t, "2026-03-04", series[0].Date, "series starts six days back")
	assert.Equal(t, "2026-03-10", series[6].Date, "series ends today")
	assert.Equal(t, 25, series[0].Points)
	assert.Equal(t, 10, series[6].Points)

	for _, bucket := range series[1:6] {
		assert.Zero(t, bucket.Points, "inactive day %s must be zero-filled", bucket.Date)
	}
}

func TestFillDailySeriesAscendingOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	series := fillDailySeries(nil, now)

	assert.Len(t, series, 7)
	for i := 1; i < len(series); i++ {
		assert.Less(t, series[i-1].Date, series[i].Date)
	}
	// Window crosses the month boundary.
	assert.Equal(t, "2026-02-23", series[0].Date)
}

func TestLocalDayBucketsAcrossMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 00:30 local is still the previous day in UTC.
	instant := time.Date(2026, 3, 10, 0, 30, 0, 0, loc)

	assert.Equal(t, "2026-03-10", localDay(instant, loc))
	assert.Equal(t, "2026-03-09", instant.UTC().Format(dateLayout))
	// Same keying the streak transition applies to the instant directly.
	assert.Equal(t, instant.Format(dateLayout), localDay(instant, loc))
}

func TestDailySeriesBucketsByProcessLocalDay(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, loc)
	// Stored as 23:30 UTC on the 9th; locally it belongs to the 10th.
	early := time.Date(2026, 3, 10, 0, 30, 0, 0, loc)

	_, err := ActionLog{}.Append(ctx, pool, "Recycle", 10, early)
	require.NoError(t, err)

	series, err := PointsAggregator{}.DailySeries(ctx, pool, now)
	require.NoError(t, err)
	require.Len(t, series, 7)

	assert.Equal(t, "2026-03-10", series[6].Date)
	assert.Equal(t, 10, series[6].Points, "near-midnight entries count toward the local day")
	assert.Zero(t, series[5].Points)
}
