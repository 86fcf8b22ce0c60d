// Package recorder persists finished stream transcripts asynchronously.
// A worker pool decouples persistence from the streaming hot path so that
// recording never delays delta delivery to the consumer.
package recorder

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/splice/pkg/llm"
)

// Record is the durable form of one completed stream: the concatenated
// content, the final usage accumulator, and any labeled fields recovered
// from the content.
type Record struct {
	RequestID   uuid.UUID         `json:"request_id"`
	Model       string            `json:"model"`
	Content     string            `json:"content"`
	Usage       llm.Usage         `json:"usage"`
	Fields      map[string]string `json:"fields,omitempty"`
	CompletedAt time.Time         `json:"completed_at"`
}
