package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(dateLayout, value)
	require.NoError(t, err)
	return parsed
}

func TestAdvanceStreakFirstAction(t *testing.T) {
	current, longest, changed := advanceStreak(0, 0, nil, day(t, "2026-03-10"))

	assert.True(t, changed)
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, longest)
}

func TestAdvanceStreakSameDayIsIdempotent(t *testing.T) {
	last := day(t, "2026-03-10")

	current, longest, changed := advanceStreak(4, 6, &last, day(t, "2026-03-10"))

	assert.False(t, changed, "second action on the same day must not advance the streak")
	assert.Equal(t, 4, current)
	assert.Equal(t, 6, longest)
}

func TestAdvanceStreakConsecutiveDay(t *testing.T) {
	last := day(t, "2026-03-10")

	current, longest, changed := advanceStreak(4, 6, &last, day(t, "2026-03-11"))

	assert.True(t, changed)
	assert.Equal(t, 5, current)
	assert.Equal(t, 6, longest)
}

func TestAdvanceStreakGapResets(t *testing.T) {
	last := day(t, "2026-03-10")

	current, longest, changed := advanceStreak(4, 6, &last, day(t, "2026-03-14"))

	assert.True(t, changed)
	assert.Equal(t, 1, current, "a gap of two or more days restarts the streak")
	assert.Equal(t, 6, longest, "longest streak keeps its prior peak")
}

func TestAdvanceStreakBackdatedDateRestarts(t *testing.T) {
	// Documented policy: a date earlier than the last action date restarts
	// the streak at 1 instead of being rejected.
	last := day(t, "2026-03-10")

	current, longest, changed := advanceStreak(4, 6, &last, day(t, "2026-03-05"))

	assert.True(t, changed)
	assert.Equal(t, 1, current)
	assert.Equal(t, 6, longest)
}

func TestAdvanceStreakLongestNeverDecreases(t *testing.T) {
	dates := []string{
		"2026-03-01", "2026-03-02", "2026-03-03", // builds to 3
		"2026-03-07",               // gap, resets to 1
		"2026-03-08", "2026-03-08", // same day repeat
	}

	current, longest := 0, 0
	var last *time.Time
	maxSeen := 0
	prevLongest := 0

	for _, d := range dates {
		today := day(t, d)
		var changed bool
		current, longest, changed = advanceStreak(current, longest, last, today)
		if changed {
			copied := today
			last = &copied
		}
		if current > maxSeen {
			maxSeen = current
		}
		assert.GreaterOrEqual(t, longest, prevLongest)
		assert.GreaterOrEqual(t, longest, current)
		prevLongest = longest
	}

	assert.Equal(t, 1, current)
	assert.Equal(t, 3, longest)
	assert.Equal(t, maxSeen, longest, "longest equals the maximum current streak observed")
}
