package mux_test

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/splice/pkg/mux"
)

// scriptedStream replays a fixed sequence of values, then either exhausts
// or faults. It records Close calls and checks the one-outstanding-pull
// invariant by detecting overlapping Next calls.
type scriptedStream struct {
	values []string
	fault  error

	pos      int
	closed   atomic.Int32
	inFlight atomic.Int32
	overlap  atomic.Bool

	// gate, when non-nil, must be received from before each value is
	// released. It lets tests interleave sources deterministically.
	gate chan struct{}
}

func (s *scriptedStream) Next(ctx context.Context) (string, error) {
	if s.inFlight.Add(1) > 1 {
		s.overlap.Store(true)
	}
	defer s.inFlight.Add(-1)

	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if s.pos >= len(s.values) {
		if s.fault != nil {
			return "", s.fault
		}
		return "", io.EOF
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

func (s *scriptedStream) Close() error {
	s.closed.Add(1)
	return nil
}

func drain(m *mux.Merged[string]) ([]string, error) {
	ctx := context.Background()
	var got []string
	for {
		v, err := m.Next(ctx)
		if err != nil {
			return got, err
		}
		got = append(got, v)
	}
}

var _ = Describe("Merge", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("yields every value from every source, then completes", func() {
		a := &scriptedStream{values: []string{"a1", "a2", "a3", "a4", "a5"}}
		b := &scriptedStream{values: []string{"b1", "b2", "b3"}}
		c := &scriptedStream{values: nil}

		got, err := drain(mux.Merge[string](ctx, a, b, c))

		Expect(err).To(Equal(io.EOF))
		Expect(got).To(HaveLen(8))
		Expect(got).To(ConsistOf("a1", "a2", "a3", "a4", "a5", "b1", "b2", "b3"))
	})

	It("preserves per-source emission order", func() {
		a := &scriptedStream{values: []string{"a1", "a2", "a3"}}
		b := &scriptedStream{values: []string{"b1", "b2", "b3"}}

		got, err := drain(mux.Merge[string](ctx, a, b))
		Expect(err).To(Equal(io.EOF))

		var fromA, fromB []string
		for _, v := range got {
			if v[0] == 'a' {
				fromA = append(fromA, v)
			} else {
				fromB = append(fromB, v)
			}
		}
		Expect(fromA).To(Equal([]string{"a1", "a2", "a3"}))
		Expect(fromB).To(Equal([]string{"b1", "b2", "b3"}))
	})

	It("never holds more than one outstanding pull per source", func() {
		a := &scriptedStream{values: []string{"a1", "a2", "a3", "a4", "a5"}}
		b := &scriptedStream{values: []string{"b1", "b2", "b3"}}

		_, err := drain(mux.Merge[string](ctx, a, b))
		Expect(err).To(Equal(io.EOF))

		Expect(a.overlap.Load()).To(BeFalse())
		Expect(b.overlap.Load()).To(BeFalse())
	})

	It("surfaces a source fault and signals the siblings", func() {
		boom := errors.New("upstream torn down")
		faulty := &scriptedStream{values: []string{"f1", "f2"}, fault: boom}
		sibling := &scriptedStream{values: []string{"s1"}, gate: make(chan struct{})}

		got, err := drain(mux.Merge[string](ctx, faulty, sibling))

		Expect(err).To(MatchError(boom))
		// Only values produced before the fault may have been yielded.
		Expect(len(got)).To(BeNumerically("<=", 3))
		// The gated sibling never exhausted, so it must have been signalled.
		Expect(sibling.closed.Load()).To(BeNumerically(">=", int32(1)))
		// The faulted source completed its own lifecycle; no signal needed.
		Expect(faulty.closed.Load()).To(Equal(int32(0)))
	})

	It("signals live sources when the consumer stops early", func() {
		a := &scriptedStream{values: []string{"a1"}, gate: make(chan struct{})}
		b := &scriptedStream{values: []string{"b1"}, gate: make(chan struct{})}

		m := mux.Merge[string](ctx, a, b)
		Expect(m.Close()).To(Succeed())

		Expect(a.closed.Load()).To(BeNumerically(">=", int32(1)))
		Expect(b.closed.Load()).To(BeNumerically(">=", int32(1)))
	})

	It("does not signal sources that already exhausted", func() {
		a := &scriptedStream{values: []string{"a1"}}
		b := &scriptedStream{values: []string{"b1"}}

		m := mux.Merge[string](ctx, a, b)
		got, err := drain(m)
		Expect(err).To(Equal(io.EOF))
		Expect(got).To(ConsistOf("a1", "b1"))

		Expect(a.closed.Load()).To(Equal(int32(0)))
		Expect(b.closed.Load()).To(Equal(int32(0)))
	})

	It("tears down when the surrounding context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		a := &scriptedStream{values: []string{"a1"}, gate: make(chan struct{})}

		m := mux.Merge[string](cctx, a)
		cancel()

		_, err := m.Next(ctx)
		Expect(err).To(MatchError(context.Canceled))
		Expect(m.Close()).To(Succeed())
		Expect(a.closed.Load()).To(BeNumerically(">=", int32(1)))
	})

	It("completes immediately with no sources", func() {
		m := mux.Merge[string](ctx)
		_, err := m.Next(ctx)
		Expect(err).To(Equal(io.EOF))
	})
})
