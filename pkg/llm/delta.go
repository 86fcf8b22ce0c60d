// Package llm holds the provider-agnostic streaming types shared across
// the repository: the canonical content delta, the usage accumulator it
// is paired with, and the payload diagnostics error.
package llm

// DoneSentinel is the literal data payload a provider emits to signal
// wire-level end-of-stream. It terminates the enclosing stream without
// being handed to a normalizer.
const DoneSentinel = "[DONE]"

// Delta is one incremental unit of generated content, normalized from a
// provider-specific streaming payload.
type Delta struct {
	// Index identifies the parallel completion this delta belongs to, for
	// providers that support multiple candidates per request.
	Index int `json:"index"`

	// Content is the text produced by this delta. May be empty for
	// payloads that only carry metadata.
	Content string `json:"content,omitempty"`

	// Last signals that the upstream has logically finished producing
	// content, independent of the wire-level end-of-stream sentinel.
	Last bool `json:"last,omitempty"`
}
