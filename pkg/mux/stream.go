// Package mux merges multiple independently-advancing pull streams into a
// single stream ordered by arrival, with cooperative cancellation. It is
// the only place in this repository where concurrent producers meet; all
// other streaming state is single-owner.
package mux

import (
	"context"
)

// Stream is a pull-based sequence of values. Implementations must honor
// context cancellation in Next: a canceled context must unblock a pending
// pull promptly, otherwise a merge over the stream cannot terminate.
//
// Next returns io.EOF once the stream is exhausted. Close delivers a
// best-effort early-termination signal to the producer; it must be safe
// to call after exhaustion and may be called at most once by the merge.
type Stream[T any] interface {
	Next(ctx context.Context) (T, error)
	Close() error
}
