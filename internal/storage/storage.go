package storage

import "time"

// Event is one entry of the client delivery journal: what happened to a
// feedback submission and when.
type Event struct {
	Timestamp  time.Time `json:"timestamp"`
	FeedbackID int64     `json:"feedback_id"`
	Status     string    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
}

// Recorder persists journal events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	Append(event Event) error
	Load() ([]Event, error)
}
