// Package sse provides an incremental, push-fed parser for the SSE
// (Server-Sent Events) wire format, built for consuming streaming LLM
// provider responses. Chunks of arbitrary size are fed in as they arrive
// from the transport; complete events are dispatched as soon as their
// terminating blank line resolves, even when lines or CRLF pairs are
// split across chunk boundaries.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Event represents a single parsed SSE event, delimited by a blank line
// in the upstream byte stream.
type Event struct {
	// ID is the last event ID from the "id:" field. Empty if the event
	// carried no id. Values containing a NUL byte are ignored per spec.
	ID string

	// Name is the SSE event type from the "event:" field.
	// An empty string means the default "message" type per the SSE spec.
	Name string

	// Data is the concatenated contents of all "data:" lines for this
	// event, joined with "\n" (per the SSE spec, multiple data fields are
	// joined with a single newline).
	Data string
}

// ReconnectInterval is dispatched immediately when a "retry:" field with a
// valid non-negative integer value is resolved. It is never buffered with
// the surrounding event.
type ReconnectInterval struct {
	// Value is the requested reconnection time in milliseconds.
	Value int
}

// Handler receives parser dispatches. Either callback may be nil, in which
// case the corresponding dispatch is dropped. A non-nil error returned
// from a callback aborts the Feed call that triggered it.
type Handler struct {
	Event func(Event) error
	Retry func(ReconnectInterval) error
}
