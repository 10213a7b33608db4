package events

import "encoding/json"

// Pub/Sub channel constants
const (
	EventsChannel = "channel:events"
)

// Event types
const (
	TypeSessionMessage = "session_message"
	TypeSessionEnded   = "session_ended"
)

// Event represents a global message published via Pub/Sub.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// SessionMessagePayload is the payload for the "session_message" event. It
// carries an already encoded server message for every client watching the
// session.
type SessionMessagePayload struct {
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

// SessionEndedPayload is the payload for the "session_ended" event.
type SessionEndedPayload struct {
	SessionID string `json:"session_id"`
}

// New builds an Event with a JSON encoded payload.
func New(eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Type: eventType, Payload: data}, nil
}
