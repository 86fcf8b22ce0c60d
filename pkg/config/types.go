package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent splice configuration stored as config.toml
// in the .splice/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version  int            `toml:"version"`
	Stream   StreamConfig   `toml:"stream"`
	Recorder RecorderConfig `toml:"recorder"`
	Events   EventsConfig   `toml:"events"`
	TTS      TTSConfig      `toml:"tts"`
}

// StreamConfig holds settings for consuming an SSE delta stream.
type StreamConfig struct {
	// Provider pins the payload adapter. Empty means auto-detect from the
	// first payload.
	Provider string `toml:"provider,omitempty"`

	// Source is the default SSE source URL. Empty means read from stdin.
	Source string `toml:"source,omitempty"`
}

// RecorderConfig holds settings for the async transcript recorder.
type RecorderConfig struct {
	Workers   uint `toml:"workers,omitempty"`
	QueueSize uint `toml:"queue_size,omitempty"`
}

// EventsConfig holds completion event publishing settings.
type EventsConfig struct {
	// Backend selects the publisher: "nop" or "kafka".
	Backend string `toml:"backend,omitempty"`
	Brokers string `toml:"brokers,omitempty"`
	Topic   string `toml:"topic,omitempty"`
}

// TTSConfig holds speech synthesis settings.
type TTSConfig struct {
	Enabled bool   `toml:"enabled,omitempty"`
	Model   string `toml:"model,omitempty"`
	Voice   string `toml:"voice,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"stream.provider": {
		get: func(c *Config) string { return c.Stream.Provider },
		set: func(c *Config, v string) error { c.Stream.Provider = v; return nil },
	},
	"stream.source": {
		get: func(c *Config) string { return c.Stream.Source },
		set: func(c *Config, v string) error { c.Stream.Source = v; return nil },
	},
	"recorder.workers": {
		get: func(c *Config) string {
			if c.Recorder.Workers == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Recorder.Workers), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for recorder.workers: %w", err)
			}
			c.Recorder.Workers = uint(n)
			return nil
		},
	},
	"recorder.queue_size": {
		get: func(c *Config) string {
			if c.Recorder.QueueSize == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.Recorder.QueueSize), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for recorder.queue_size: %w", err)
			}
			c.Recorder.QueueSize = uint(n)
			return nil
		},
	},
	"events.backend": {
		get: func(c *Config) string { return c.Events.Backend },
		set: func(c *Config, v string) error { c.Events.Backend = v; return nil },
	},
	"events.brokers": {
		get: func(c *Config) string { return c.Events.Brokers },
		set: func(c *Config, v string) error { c.Events.Brokers = v; return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"tts.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.TTS.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for tts.enabled: %w", err)
			}
			c.TTS.Enabled = b
			return nil
		},
	},
	"tts.model": {
		get: func(c *Config) string { return c.TTS.Model },
		set: func(c *Config, v string) error { c.TTS.Model = v; return nil },
	},
	"tts.voice": {
		get: func(c *Config) string { return c.TTS.Voice },
		set: func(c *Config, v string) error { c.TTS.Voice = v; return nil },
	},
}
