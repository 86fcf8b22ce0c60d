// Package openaispeech implements pkg/tts's Synthesizer client for
// OpenAI's speech API.
package openaispeech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/papercomputeco/splice/pkg/credentials"
	"github.com/papercomputeco/splice/pkg/tts"
)

const (
	// DefaultModel is the default speech model.
	DefaultModel = "tts-1"

	// DefaultVoice is the default voice preset.
	DefaultVoice = "alloy"

	// DefaultBaseURL is the default OpenAI API URL.
	DefaultBaseURL = "https://api.openai.com"

	// pcm output is 24kHz, mono, signed 16-bit little-endian.
	pcmSampleRate    = 24000
	pcmChannels      = 1
	pcmBytesPerFrame = 2
)

// Synthesizer wraps OpenAI's speech API.
type Synthesizer struct {
	baseURL    string
	model      string
	voice      string
	tokens     credentials.TokenProvider
	httpClient *http.Client
}

// Config holds configuration for the OpenAI speech synthesizer.
type Config struct {
	// BaseURL is the OpenAI API URL. Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the speech model to use (e.g., "tts-1", "tts-1-hd").
	// Defaults to DefaultModel if empty.
	Model string

	// Voice is the voice preset. Defaults to DefaultVoice if empty.
	Voice string

	// Tokens supplies the bearer token for each request.
	Tokens credentials.TokenProvider
}

// speechRequest is the request body for OpenAI's speech API.
type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// NewSynthesizer creates a new synthesizer using OpenAI's speech API.
func NewSynthesizer(cfg Config) (*Synthesizer, error) {
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("%w: token provider is required", tts.ErrSynthesis)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	voice := cfg.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	return &Synthesizer{
		baseURL: baseURL,
		model:   model,
		voice:   voice,
		tokens:  cfg.Tokens,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Synthesize renders the text as one pcm audio clip.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*tts.Clip, error) {
	token, err := s.tokens.Token(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching token: %v", tts.ErrSynthesis, err)
	}

	reqBody := speechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: "pcm",
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", tts.ErrSynthesis, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v1/audio/speech", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", tts.ErrSynthesis, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: sending request: %v", tts.ErrSynthesis, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: openai returned status %d: %s", tts.ErrSynthesis, resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading audio: %v", tts.ErrSynthesis, err)
	}

	frames := len(audio) / (pcmBytesPerFrame * pcmChannels)
	duration := time.Duration(frames) * time.Second / pcmSampleRate

	return &tts.Clip{
		Audio:      audio,
		Duration:   duration,
		SampleRate: pcmSampleRate,
		Channels:   pcmChannels,
	}, nil
}

// Close releases resources held by the synthesizer.
func (s *Synthesizer) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// Ensure Synthesizer implements tts.Synthesizer
var _ tts.Synthesizer = (*Synthesizer)(nil)
