// Package tts defines the boundary for turning text segments into audio.
package tts

import (
	"context"
	"errors"
	"time"
)

// ErrSynthesis indicates a failure while synthesizing speech.
var ErrSynthesis = errors.New("speech synthesis failed")

// Clip is one synthesized audio segment.
type Clip struct {
	// Audio is the raw audio payload in the synthesizer's output format.
	Audio []byte

	// Duration is the clip's playback length, zero when the format does
	// not allow deriving it.
	Duration time.Duration

	// SampleRate is the sample rate in Hz.
	SampleRate int

	// Channels is the channel count.
	Channels int
}

// Synthesizer converts text segments into audio clips.
type Synthesizer interface {
	// Synthesize renders the text as one audio clip.
	Synthesize(ctx context.Context, text string) (*Clip, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}
