// Package provider defines the adapter interface between raw streaming
// payloads and the canonical delta representation, plus detection of
// which upstream format a payload belongs to. Each provider
// implementation knows one upstream's streaming structure.
package provider

import (
	"github.com/papercomputeco/splice/pkg/llm"
)

// Provider normalizes one upstream's streaming payload shape.
type Provider interface {
	// Name returns the canonical provider name (e.g. "openai",
	// "anthropic", "gemini").
	Name() string

	// CanHandle returns true if the payload appears to be this
	// provider's streaming format. Implementations check for
	// provider-specific markers such as field names or type tags.
	CanHandle(payload []byte) bool

	// ParseStreamChunk converts a single streaming payload into a
	// canonical delta, writing any usage fields the payload reveals into
	// the shared accumulator (last-writer-wins). A payload that does not
	// match the provider's structure yields a *llm.PayloadError.
	ParseStreamChunk(payload []byte, usage *llm.Usage) (*llm.Delta, error)
}
