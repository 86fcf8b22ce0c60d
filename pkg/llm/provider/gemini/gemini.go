// Package gemini
package gemini

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/papercomputeco/splice/pkg/llm"
)

// provider implements the Provider interface for Gemini stream chunks.
type provider struct{}

func New() *provider { return &provider{} }

func (g *provider) Name() string {
	return "gemini"
}

func (g *provider) CanHandle(payload []byte) bool {
	var probe struct {
		Candidates    []json.RawMessage `json:"candidates"`
		UsageMetadata *json.RawMessage  `json:"usageMetadata"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}
	return len(probe.Candidates) > 0 || probe.UsageMetadata != nil
}

func (g *provider) ParseStreamChunk(payload []byte, usage *llm.Usage) (*llm.Delta, error) {
	var chunk streamChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, &llm.PayloadError{Provider: g.Name(), Payload: string(payload), Err: err}
	}
	if len(chunk.Candidates) == 0 && chunk.UsageMetadata == nil {
		return nil, &llm.PayloadError{
			Provider: g.Name(),
			Payload:  string(payload),
			Err:      errors.New("neither candidates nor usageMetadata present"),
		}
	}

	if chunk.ModelVersion != "" {
		usage.Model = chunk.ModelVersion
	}
	if m := chunk.UsageMetadata; m != nil {
		usage.PromptTokens = m.PromptTokenCount
		usage.CompletionTokens = m.CandidatesTokenCount
	}

	// Trailing chunks may be usage-only.
	if len(chunk.Candidates) == 0 {
		return &llm.Delta{}, nil
	}

	cand := chunk.Candidates[0]
	var text strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			text.WriteString(p.Text)
		}
	}

	return &llm.Delta{
		Index:   cand.Index,
		Content: text.String(),
		Last:    cand.FinishReason != "",
	}, nil
}
