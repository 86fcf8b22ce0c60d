package anthropic

// streamEvent represents one Anthropic Messages streaming payload. The
// Type tag selects which of the remaining fields are populated.
type streamEvent struct {
	Type string `json:"type"`

	// message_start
	Message *startMessage `json:"message,omitempty"`

	// content_block_delta
	Index int         `json:"index"`
	Delta *eventDelta `json:"delta,omitempty"`

	// message_delta
	Usage *eventUsage `json:"usage,omitempty"`
}

type startMessage struct {
	ID    string      `json:"id"`
	Model string      `json:"model"`
	Usage *eventUsage `json:"usage,omitempty"`
}

// eventDelta doubles as the content_block_delta payload ("text_delta",
// "thinking_delta", "input_json_delta") and the message_delta payload
// (stop_reason).
type eventDelta struct {
	Type        string  `json:"type,omitempty"`
	Text        string  `json:"text,omitempty"`
	Thinking    string  `json:"thinking,omitempty"`
	PartialJSON string  `json:"partial_json,omitempty"`
	StopReason  string  `json:"stop_reason,omitempty"`
	StopSeq     *string `json:"stop_sequence,omitempty"`
}

type eventUsage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}
