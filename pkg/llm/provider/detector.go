package provider

import (
	"github.com/papercomputeco/splice/pkg/llm/provider/anthropic"
	"github.com/papercomputeco/splice/pkg/llm/provider/gemini"
	"github.com/papercomputeco/splice/pkg/llm/provider/openai"
)

// Detector picks the adapter for a payload by checking registered
// providers in order.
type Detector struct {
	providers []Provider
}

// NewDetector creates a Detector with the default set of providers.
// Providers are checked in order: Anthropic, OpenAI, then Gemini.
// Anthropic goes first because its type-tagged events are the most
// distinctive; Gemini goes last because its probe is the loosest.
func NewDetector() *Detector {
	return &Detector{
		providers: []Provider{
			anthropic.New(),
			openai.New(),
			gemini.New(),
		},
	}
}

// Detect returns the first provider that reports it can handle the
// payload, or false when none matches.
func (d *Detector) Detect(payload []byte) (Provider, bool) {
	for _, p := range d.providers {
		if p.CanHandle(payload) {
			return p, true
		}
	}
	return nil, false
}
