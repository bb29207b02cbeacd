package user

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// EventKind is the type of a user lifecycle event.
type EventKind string

const (
	EventCreated EventKind = "user_created"
	EventDeleted EventKind = "user_deleted"
)

// Event is the payload written to the outbox on user lifecycle changes.
type Event struct {
	UserID    ID        `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail Email     `json:"user_email"`
	Kind      EventKind `json:"event_kind"`
}

// NewEvent builds the lifecycle event of kind for u.
func NewEvent(u *User, kind EventKind) Event {
	return Event{
		UserID:    u.ID,
		UserName:  u.Name(),
		UserEmail: u.Credentials.Email,
		Kind:      kind,
	}
}

// Payload returns the JSON encoding and its hex SHA-256 checksum.
func (e Event) Payload() ([]byte, string, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(raw)
	return raw, hex.EncodeToString(sum[:]), nil
}
