package models

import "github.com/google/uuid"

// UserEvent is a user/event association row with no identity of its own.
// (user_id, event_id) is the primary key, so the pair behaves as a set.
type UserEvent struct {
	UserID  uuid.UUID `json:"user_id" db:"user_id"`
	EventID uuid.UUID `json:"event_id" db:"event_id"`
}
