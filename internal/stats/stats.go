package stats

import (
	"ecoTrackerAPI/internal/action"
	"ecoTrackerAPI/internal/challenge"
)

// DailyPoints is one bucket of the 7-day trend series. Date is a calendar
// day in "2006-01-02" form.
type DailyPoints struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
}

// Snapshot is the aggregate state returned by a single transactional read.
type Snapshot struct {
	TotalPoints         int                    `json:"total_points"`
	WeeklyPoints        int                    `json:"weekly_points"`
	TotalActions        int                    `json:"total_actions"`
	CurrentStreak       int                    `json:"current_streak"`
	LongestStreak       int                    `json:"longest_streak"`
	RecentActions       []*action.Entry        `json:"recent_actions"`
	Challenges          []*challenge.Challenge `json:"challenges"`
	ActiveChallenges    int                    `json:"active_challenges"`
	CompletedChallenges int                    `json:"completed_challenges"`
	DailySeries         []DailyPoints          `json:"daily_points_last_week"`
}

// LoggedResult is returned by a successful log operation, with totals as of
// the same transaction that appended the entry.
type LoggedResult struct {
	Entry         *action.Entry `json:"entry"`
	TotalPoints   int           `json:"total_points"`
	WeeklyPoints  int           `json:"weekly_points"`
	CurrentStreak int           `json:"current_streak"`
	LongestStreak int           `json:"longest_streak"`
}
