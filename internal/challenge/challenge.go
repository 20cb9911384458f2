package challenge

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

type MatchKind string

const (
	MatchAny       MatchKind = "any"
	MatchAction    MatchKind = "action"
	MatchActionSet MatchKind = "action_set"
)

// Predicate decides which log entries count toward a challenge. Stored on
// the challenge row so new challenge types need no changes to update logic.
type Predicate struct {
	Kind    MatchKind `json:"kind" db:"match_kind"`
	Actions []string  `json:"actions,omitempty" db:"match_actions"`
}

func (p Predicate) Matches(actionName string) bool {
	switch p.Kind {
	case MatchAny:
		return true
	case MatchAction, MatchActionSet:
		return slices.Contains(p.Actions, actionName)
	}
	return false
}

type Challenge struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Seq          int        `json:"-" db:"seq"`
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	Match        Predicate  `json:"match"`
	TargetCount  int        `json:"target_count" db:"target_count"`
	CurrentCount int        `json:"current_count" db:"current_count"`
	Completed    bool       `json:"completed" db:"completed"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// WithProgress is the API representation, carrying the completion ratio the
// UI renders as a progress bar.
type WithProgress struct {
	Challenge
	ProgressPercentage float64 `json:"progress_percentage"`
}

// TransportActions are the action names counted by the eco-transport
// challenge.
var TransportActions = []string{"Bike", "Walk", "Public Transport"}

type Seed struct {
	Name        string
	Description string
	Target      int
	Match       Predicate
}

// DefaultCatalog is the fixed challenge catalog, inserted once on first
// startup and never re-created.
func DefaultCatalog() []Seed {
	return []Seed{
		{"Eco Beginner", "Complete 10 eco-actions", 10, Predicate{Kind: MatchAny}},
		{"Green Warrior", "Complete 20 eco-actions in a month", 20, Predicate{Kind: MatchAny}},
		{"Eco Champion", "Complete 50 eco-actions", 50, Predicate{Kind: MatchAny}},
		{"Planet Protector", "Complete 100 eco-actions", 100, Predicate{Kind: MatchAny}},
		{"Recycling Master", "Recycle 15 times", 15, Predicate{Kind: MatchAction, Actions: []string{"Recycle"}}},
		{"Transport Hero", "Use eco-transport 25 times", 25, Predicate{Kind: MatchActionSet, Actions: TransportActions}},
	}
}
