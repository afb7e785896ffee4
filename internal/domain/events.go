package domain

import "time"

// Broadcast topics. Every successful scoring update pushes the full match
// document on EventMatchUpdate; lifecycle events fire on create and delete.
const (
	EventMatchUpdate  = "match:update"
	EventMatchCreated = "match:created"
	EventMatchDeleted = "match:deleted"
)

// Event is the envelope delivered to websocket viewers.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// MatchDeletedPayload carries only the ID; the document is gone.
type MatchDeletedPayload struct {
	MatchID string `json:"match_id"`
}

// Department is a competing unit. Matches reference departments by ID.
type Department struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"` // banner color for scoreboards
	CreatedAt time.Time `json:"created_at"`
}
