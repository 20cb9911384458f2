package action

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single logged eco-action. Entries are append-only: they are
// never updated, and removed only by a full reset.
type Entry struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Action   string    `json:"action" db:"action"`
	Points   int       `json:"points" db:"points"`
	LoggedAt time.Time `json:"logged_at" db:"logged_at"`
}

type LogRequest struct {
	Action string `json:"action"`
	Points int    `json:"points"`
}
