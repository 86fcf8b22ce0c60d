package llm

// Usage accumulates token counts and the responding model over the
// lifetime of one normalized stream. Fields follow last-writer-wins
// semantics: successive payloads progressively reveal more accurate
// counts (e.g. a final usage payload refining an early estimate), and
// each adapter write simply replaces the previous value.
type Usage struct {
	// Model is the model name reported by the upstream, when known.
	Model string `json:"model,omitempty"`

	// Token counts as most recently reported.
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
}

// TotalTokens returns the combined prompt and completion count.
func (u *Usage) TotalTokens() int {
	return u.PromptTokens + u.CompletionTokens
}
