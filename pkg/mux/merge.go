package mux

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// slot tracks one source inside a merge. A slot is retired permanently
// when its source reports exhaustion or faults; retired slots are skipped
// by the termination sweep.
type slot[T any] struct {
	source  Stream[T]
	retired atomic.Bool
}

// Merged is the consumer end of a fan-in merge. Values from all sources
// are yielded in arrival order; within one source, emission order matches
// that source's production order.
type Merged[T any] struct {
	out    chan T
	cancel context.CancelFunc
	done   chan struct{}

	closeOnce sync.Once

	// fault is written once by the supervisor before out is closed, so
	// reading it after the channel closes is race-free.
	fault error
}

// Merge starts a fan-in over the given sources. Each live source has
// exactly one outstanding pull at all times: a dedicated puller goroutine
// requests the next value, hands it to the consumer, and only then pulls
// again. A source returning io.EOF is retired; the merge ends once every
// source has retired.
//
// If any pull faults, the fault is surfaced from Next after all other
// live sources have been sent a best-effort Close; Close errors never
// mask the original fault. Cancelling ctx, or calling Close on the
// result, tears the merge down the same way.
func Merge[T any](ctx context.Context, sources ...Stream[T]) *Merged[T] {
	mctx, cancel := context.WithCancel(ctx)

	m := &Merged[T]{
		out:    make(chan T),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	slots := make([]*slot[T], len(sources))
	for i, src := range sources {
		slots[i] = &slot[T]{source: src}
	}

	g, gctx := errgroup.WithContext(mctx)
	for _, s := range slots {
		g.Go(func() error {
			return m.pull(gctx, s)
		})
	}

	// Supervisor: waits for every puller, sweeps termination signals over
	// unretired slots, then releases the consumer.
	go func() {
		err := g.Wait()
		for _, s := range slots {
			if !s.retired.Load() {
				// Best-effort only. A failing Close must not mask err.
				_ = s.source.Close()
			}
		}
		m.fault = err
		close(m.out)
		close(m.done)
		cancel()
	}()

	return m
}

// pull runs the race-and-replace loop for one slot: one outstanding
// request, replaced only after the previous value was handed downstream.
func (m *Merged[T]) pull(ctx context.Context, s *slot[T]) error {
	for {
		v, err := s.source.Next(ctx)
		if err != nil {
			if err == io.EOF {
				s.retired.Store(true)
				return nil
			}
			if ctx.Err() != nil {
				// Unwound by merge teardown, not a source fault. The slot
				// stays live so the sweep still signals the source.
				return ctx.Err()
			}
			// A faulted pull completes the slot's lifecycle.
			s.retired.Store(true)
			return err
		}

		select {
		case m.out <- v:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Next yields the next value to arrive from any live source. It returns
// io.EOF once every source has completed, or the originating fault after
// a source or the surrounding context failed.
func (m *Merged[T]) Next(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-m.out:
		if !ok {
			if m.fault != nil {
				return zero, m.fault
			}
			return zero, io.EOF
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close stops the merge early: pullers are cancelled and every slot not
// yet retired receives a termination signal. Close blocks until the sweep
// has finished and is safe to call more than once.
func (m *Merged[T]) Close() error {
	m.closeOnce.Do(m.cancel)
	<-m.done
	return nil
}
