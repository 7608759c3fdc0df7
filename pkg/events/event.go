package events

import (
	"encoding/json"
	"time"
)

const (
	TypeUserRegistered   = "user.registered"
	TypeSessionFinalized = "session.finalized"
	TypeProfileUpdated   = "profile.updated"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "session.finalized").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{Type: eventType, Data: data, OccurredAt: time.Now().UTC()}
}

func UserRegistered(userID string) BaseEvent {
	return New(TypeUserRegistered, map[string]interface{}{"user_id": userID})
}

func SessionFinalized(userID, sessionID string) BaseEvent {
	return New(TypeSessionFinalized, map[string]interface{}{"user_id": userID, "session_id": sessionID})
}

// ProfileUpdated source is "logout" or "chat".
func ProfileUpdated(userID, source string) BaseEvent {
	return New(TypeProfileUpdated, map[string]interface{}{"user_id": userID, "source": source})
}

// Encode serializes any Event into the wire form shared by the in-process bus and NATS.
func Encode(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
}

func Decode(raw []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(raw, &e)
	return e, err
}
