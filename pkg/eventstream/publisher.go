package eventstream

import "context"

// Publisher publishes completion events to an event stream backend.
type Publisher interface {
	Publish(ctx context.Context, event *StreamCompletedEvent) error
	Close() error
}
