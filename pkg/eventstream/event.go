// Package eventstream defines transport-neutral completion events and the
// Publisher interface for emitting them to an event stream backend.
package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/splice/pkg/llm"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeStreamCompleted is emitted after a stream's transcript is persisted.
	EventTypeStreamCompleted = "splice.stream.completed"
)

// StreamCompletedEvent is a transport-neutral event payload for a
// completed stream.
type StreamCompletedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Usage         llm.Usage   `json:"usage"`
	RequestID     uuid.UUID   `json:"request_id"`
	CompletedAt   time.Time   `json:"completed_at"`
}

// EventSource identifies where the stream originated.
type EventSource struct {
	Project string `json:"project,omitempty"`
	Model   string `json:"model"`
}

// NewStreamCompletedEvent builds a v1 completion event for a recorded
// stream.
func NewStreamCompletedEvent(requestID uuid.UUID, model string, usage llm.Usage, completedAt time.Time) *StreamCompletedEvent {
	return &StreamCompletedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeStreamCompleted,
		EventID:       "evt_" + uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Source:        EventSource{Model: model},
		Usage:         usage,
		RequestID:     requestID,
		CompletedAt:   completedAt,
	}
}
