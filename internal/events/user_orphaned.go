package events

import "time"

const (
	UserOrphanedTopic = "garage.user.orphaned.v1"

	EventTypeUserOrphaned = "user_orphaned"
)

// UserOrphanedEvent is emitted when a user row was written but its auth
// mapping could not be, and the compensating delete failed as well.
type UserOrphanedEvent struct {
	EventType         string    `json:"event_type"`
	RequestID         string    `json:"request_id,omitempty"`
	UserUID           string    `json:"user_uid"`
	GarageUID         string    `json:"garage_uid"`
	LoginID           string    `json:"login_id"`
	Cause             string    `json:"cause"`
	CompensationError string    `json:"compensation_error"`
	OccurredAt        time.Time `json:"occurred_at"`
}
