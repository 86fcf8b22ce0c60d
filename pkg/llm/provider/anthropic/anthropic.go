// Package anthropic
package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/papercomputeco/splice/pkg/llm"
)

// provider implements the Provider interface for Anthropic's Messages
// streaming API.
type provider struct{}

func New() *provider { return &provider{} }

func (p *provider) Name() string {
	return "anthropic"
}

func (p *provider) CanHandle(payload []byte) bool {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}

	switch probe.Type {
	case "message_start", "content_block_start", "content_block_delta",
		"content_block_stop", "message_delta", "message_stop", "ping":
		return true
	}
	return false
}

func (p *provider) ParseStreamChunk(payload []byte, usage *llm.Usage) (*llm.Delta, error) {
	var ev streamEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, &llm.PayloadError{Provider: p.Name(), Payload: string(payload), Err: err}
	}

	switch ev.Type {
	case "message_start":
		if ev.Message == nil {
			return nil, p.mismatch(payload, "message_start without message")
		}
		usage.Model = ev.Message.Model
		if u := ev.Message.Usage; u != nil {
			// Cache reads and writes still occupy context, so they count
			// toward the prompt side.
			usage.PromptTokens = u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
			usage.CompletionTokens = u.OutputTokens
		}
		return &llm.Delta{}, nil

	case "content_block_delta":
		if ev.Delta == nil {
			return nil, p.mismatch(payload, "content_block_delta without delta")
		}
		return &llm.Delta{Index: ev.Index, Content: ev.Delta.Text}, nil

	case "message_delta":
		if ev.Usage != nil {
			// Refines the running output count; the final message_delta
			// carries the authoritative total.
			usage.CompletionTokens = ev.Usage.OutputTokens
		}
		last := ev.Delta != nil && ev.Delta.StopReason != ""
		return &llm.Delta{Last: last}, nil

	case "message_stop":
		return &llm.Delta{Last: true}, nil

	case "ping", "content_block_start", "content_block_stop":
		return &llm.Delta{Index: ev.Index}, nil
	}

	return nil, p.mismatch(payload, fmt.Sprintf("unknown event type %q", ev.Type))
}

func (p *provider) mismatch(payload []byte, msg string) error {
	return &llm.PayloadError{
		Provider: p.Name(),
		Payload:  string(payload),
		Err:      fmt.Errorf("%s", msg),
	}
}
