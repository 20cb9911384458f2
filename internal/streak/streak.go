package streak

import "time"

// State is the singleton day-streak row. LastActionDate is nil until the
// first action is logged.
type State struct {
	CurrentStreak  int        `json:"current_streak" db:"current_streak"`
	LongestStreak  int        `json:"longest_streak" db:"longest_streak"`
	LastActionDate *time.Time `json:"last_action_date,omitempty" db:"last_action_date"`
}
