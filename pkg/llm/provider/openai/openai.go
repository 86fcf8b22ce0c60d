// Package openai
package openai

import (
	"encoding/json"
	"fmt"

	"github.com/papercomputeco/splice/pkg/llm"
)

// provider implements the Provider interface for OpenAI's Chat
// Completions streaming API.
type provider struct{}

func New() *provider { return &provider{} }

func (o *provider) Name() string {
	return "openai"
}

func (o *provider) CanHandle(payload []byte) bool {
	var probe struct {
		Object  string `json:"object"`
		Choices []struct {
			Delta *json.RawMessage `json:"delta"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}

	if probe.Object == "chat.completion.chunk" {
		return true
	}

	// Older deployments omit the object field; a choices array whose
	// entries carry a delta is still a strong signal.
	return len(probe.Choices) > 0 && probe.Choices[0].Delta != nil
}

func (o *provider) ParseStreamChunk(payload []byte, usage *llm.Usage) (*llm.Delta, error) {
	var chunk streamChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, &llm.PayloadError{Provider: o.Name(), Payload: string(payload), Err: err}
	}
	if chunk.Object != "" && chunk.Object != "chat.completion.chunk" {
		return nil, &llm.PayloadError{
			Provider: o.Name(),
			Payload:  string(payload),
			Err:      fmt.Errorf("unexpected object %q", chunk.Object),
		}
	}

	if chunk.Model != "" {
		usage.Model = chunk.Model
	}
	if chunk.Usage != nil {
		usage.PromptTokens = chunk.Usage.PromptTokens
		usage.CompletionTokens = chunk.Usage.CompletionTokens
	}

	// The trailing usage-only chunk has no choices; it contributes
	// counters but no content.
	if len(chunk.Choices) == 0 {
		return &llm.Delta{}, nil
	}

	choice := chunk.Choices[0]
	return &llm.Delta{
		Index:   choice.Index,
		Content: choice.Delta.Content,
		Last:    choice.FinishReason != "",
	}, nil
}
