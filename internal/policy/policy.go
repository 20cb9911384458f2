// Package policy holds the UI-layer scoring rules: the action->points map,
// the weekly point cap, and point-milestone achievements. The tracking
// engine itself is agnostic to all of this; callers pass plain values in.
package policy

// WeeklyCap is the ceiling on points logged within a trailing 7-day window,
// enforced by callers against the engine's rolling weekly sum.
const WeeklyCap = 1000

// Streak display thresholds used by UI layers.
const (
	StreakWarmDays = 3
	StreakHotDays  = 7
)

// StreakLabel names the display bucket for a current streak length.
func StreakLabel(days int) string {
	switch {
	case days >= StreakHotDays:
		return "hot"
	case days >= StreakWarmDays:
		return "warm"
	default:
		return "cold"
	}
}

type ActionOption struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Catalog returns the fixed action->points menu, in display order.
func Catalog() []ActionOption {
	return []ActionOption{
		{"Recycle", 10},
		{"Bike", 20},
		{"Walk", 15},
		{"Public Transport", 15},
		{"Plant Seed", 30},
		{"Pick Up Trash", 5},
	}
}

// PointsFor looks up the points for a catalog action. ok is false for
// actions outside the catalog.
func PointsFor(name string) (points int, ok bool) {
	for _, opt := range Catalog() {
		if opt.Name == name {
			return opt.Points, true
		}
	}
	return 0, false
}

// Milestones are the lifetime point totals that earn an achievement.
var Milestones = []int{50, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}

// MilestoneTier buckets a milestone into its medal tier.
func MilestoneTier(milestone int) string {
	switch {
	case milestone < 400:
		return "bronze"
	case milestone < 800:
		return "silver"
	default:
		return "gold"
	}
}

// MilestonesCrossed returns the milestones passed when the lifetime total
// moves from oldTotal to newTotal.
func MilestonesCrossed(oldTotal, newTotal int) []int {
	var crossed []int
	for _, m := range Milestones {
		if oldTotal < m && m <= newTotal {
			crossed = append(crossed, m)
		}
	}
	return crossed
}

// EarnedMilestones returns every milestone at or below the given total.
func EarnedMilestones(total int) []int {
	return MilestonesCrossed(0, total)
}
