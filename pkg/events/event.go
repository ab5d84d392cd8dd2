package events

import (
	"encoding/json"
	"time"
)

// Event is the contract every system event implements.
type Event interface {
	// EventType returns the unique code for this event (e.g. "RETRIEVAL_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the standard Event implementation.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
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

// Envelope is the wire format events travel in. Carrying the type and
// timestamp alongside the payload lets a subscriber reconstruct the event
// without guessing from the subject.
type Envelope struct {
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Marshal wraps an event in its envelope and serializes it.
func Marshal(event Event) ([]byte, error) {
	return json.Marshal(Envelope{
		Type:       event.EventType(),
		Payload:    event.Payload(),
		OccurredAt: event.Timestamp(),
	})
}

// Unmarshal restores an event from its wire form.
func Unmarshal(data []byte) (Event, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	return BaseEvent{
		Type:       envelope.Type,
		Data:       envelope.Payload,
		OccurredAt: envelope.OccurredAt,
	}, nil
}
