package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/papercomputeco/splice/pkg/llm"
	"github.com/papercomputeco/splice/pkg/llm/provider"
	"github.com/papercomputeco/splice/pkg/logger"
	"github.com/papercomputeco/splice/pkg/mux"
	"github.com/papercomputeco/splice/pkg/sse"
)

var _ mux.Stream[*llm.Delta] = (*DeltaStream)(nil)

// ErrUnknownProvider is returned when no adapter recognizes the stream's
// first payload and no provider was pinned with WithProvider.
var ErrUnknownProvider = errors.New("pipeline: no provider recognizes the payload")

// DeltaStream reads server-sent events from body and yields canonical
// deltas. It suppresses the [DONE] sentinel, folds token usage into a
// single accumulator for the stream's lifetime, and stops emitting as
// soon as a payload fails to normalize.
//
// DeltaStream implements mux.Stream[*llm.Delta]. Cancellation takes
// effect at payload boundaries; Close unblocks a pending read on body.
type DeltaStream struct {
	provider provider.Provider
	detector *provider.Detector
	reader   *sse.Reader
	body     io.ReadCloser
	log      *slog.Logger

	usage llm.Usage
	fault error
	done  bool

	closeOnce sync.Once
	closeErr  error
}

// NewDeltaStream creates a DeltaStream over an SSE byte source. The
// caller keeps ownership of body until Close.
func NewDeltaStream(body io.ReadCloser, opts ...Option) *DeltaStream {
	d := &DeltaStream{
		reader:   sse.NewReader(body),
		body:     body,
		detector: provider.NewDetector(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Next returns the next canonical delta. Payloads that carry only
// metadata (model name, token counts) are folded into Usage and not
// yielded. Next returns io.EOF once the source is exhausted or the
// [DONE] sentinel arrives; after a normalization fault it keeps
// returning that fault.
func (d *DeltaStream) Next(ctx context.Context) (*llm.Delta, error) {
	for {
		if d.fault != nil {
			return nil, d.fault
		}
		if d.done {
			return nil, io.EOF
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ev, err := d.reader.Next()
		if err != nil {
			d.fault = fmt.Errorf("pipeline: read event: %w", err)
			return nil, d.fault
		}
		if ev == nil {
			d.done = true
			d.log.Debug("stream exhausted", "usage", d.usage)
			return nil, io.EOF
		}

		if ev.Data == llm.DoneSentinel {
			d.done = true
			d.log.Debug("stream completed", "usage", d.usage)
			return nil, io.EOF
		}

		payload := []byte(ev.Data)
		if d.provider == nil {
			p, ok := d.detector.Detect(payload)
			if !ok {
				d.fault = fmt.Errorf("%w: %q", ErrUnknownProvider, ev.Data)
				return nil, d.fault
			}
			d.provider = p
			d.log.Debug("provider detected", "provider", p.Name())
		}

		delta, err := d.provider.ParseStreamChunk(payload, &d.usage)
		if err != nil {
			d.fault = err
			d.log.Error("payload normalization failed", "provider", d.provider.Name(), "error", err)
			return nil, d.fault
		}

		// Metadata-only chunk: usage already folded, nothing to yield.
		if delta.Content == "" && !delta.Last {
			continue
		}
		return delta, nil
	}
}

// Usage returns the accumulated token usage observed so far. Later
// payloads overwrite earlier ones field by field.
func (d *DeltaStream) Usage() llm.Usage {
	return d.usage
}

// Provider returns the adapter in use, or nil before detection.
func (d *DeltaStream) Provider() provider.Provider {
	return d.provider
}

// Close closes the underlying byte source. Safe to call more than once
// and from a goroutine other than the one calling Next.
func (d *DeltaStream) Close() error {
	d.closeOnce.Do(func() {
		d.closeErr = d.body.Close()
	})
	return d.closeErr
}
