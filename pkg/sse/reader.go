package sse

import (
	"io"
)

// Reader is a pull-style convenience over Parser for callers that hold an
// io.Reader rather than a chunk callback. Each Next call reads from the
// source until at least one complete event has resolved.
//
// Per the SSE spec, an event still accumulating when the source is
// exhausted (no terminating blank line) is discarded, not yielded.
type Reader struct {
	parser *Parser
	src    io.Reader
	buf    []byte
	queue  []Event
	err    error
}

// NewReader returns a Reader parsing SSE events from src.
func NewReader(src io.Reader) *Reader {
	r := &Reader{
		src: src,
		buf: make([]byte, 32*1024),
	}
	r.parser = NewParser(Handler{
		Event: func(ev Event) error {
			r.queue = append(r.queue, ev)
			return nil
		},
	})
	return r
}

// Next returns the next parsed SSE event. It blocks on the underlying
// reader until a complete event is available. Next returns nil, nil once
// the source is exhausted. Closing the underlying reader unblocks a
// pending read; the resulting error is surfaced here.
func (r *Reader) Next() (*Event, error) {
	for len(r.queue) == 0 {
		if r.err != nil {
			if r.err == io.EOF {
				return nil, nil
			}
			return nil, r.err
		}

		n, err := r.src.Read(r.buf)
		if n > 0 {
			// The parser's Event handler only queues, so Feed cannot fail.
			_ = r.parser.Feed(string(r.buf[:n]))
		}
		if err != nil {
			r.err = err
		}
	}

	ev := r.queue[0]
	r.queue = r.queue[1:]
	return &ev, nil
}

// Reset clears all parse state and begins a new epoch reading from src.
// Queued events from the previous epoch are dropped.
func (r *Reader) Reset(src io.Reader) {
	r.parser.Reset()
	r.src = src
	r.queue = nil
	r.err = nil
}
