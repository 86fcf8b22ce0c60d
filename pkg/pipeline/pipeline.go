// Package pipeline connects the streaming core: it reads server-sent
// events from a byte source, normalizes each payload through a provider
// adapter, and exposes the result as a pull stream of canonical deltas
// suitable for merging.
package pipeline

import (
	"log/slog"

	"github.com/papercomputeco/splice/pkg/llm/provider"
)

// Option configures a DeltaStream.
type Option func(*DeltaStream)

// WithProvider pins the adapter used to normalize payloads. Without it
// the stream detects the provider from the first payload it sees.
func WithProvider(p provider.Provider) Option {
	return func(d *DeltaStream) {
		d.provider = p
	}
}

// WithLogger sets the stream's logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *DeltaStream) {
		d.log = log
	}
}
