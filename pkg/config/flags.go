package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands.
type Flag struct {
	// Name is the long flag name (e.g. "source").
	Name string

	// Shorthand is the one-letter short flag (e.g. "s"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "stream.source").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddUintFlag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagProvider      = "provider"
	FlagSource        = "source"
	FlagWorkers       = "workers"
	FlagQueueSize     = "queue-size"
	FlagEventsBackend = "events-backend"
	FlagBrokers       = "brokers"
	FlagTopic         = "topic"
	FlagTTSModel      = "tts-model"
	FlagTTSVoice      = "tts-voice"
)

// DefaultFlagSet returns the registry of flags shared by splice commands.
func DefaultFlagSet() FlagSet {
	return FlagSet{
		FlagProvider: {
			Name:        "provider",
			Shorthand:   "p",
			ViperKey:    "stream.provider",
			Description: "Payload adapter (anthropic, openai, gemini; empty = auto-detect)",
		},
		FlagSource: {
			Name:        "source",
			Shorthand:   "s",
			ViperKey:    "stream.source",
			Description: "SSE source URL; comma-separate several to merge streams (empty = read from stdin)",
		},
		FlagWorkers: {
			Name:        "workers",
			ViperKey:    "recorder.workers",
			Description: "Number of recorder workers",
		},
		FlagQueueSize: {
			Name:        "queue-size",
			ViperKey:    "recorder.queue_size",
			Description: "Capacity of the recorder job queue",
		},
		FlagEventsBackend: {
			Name:        "events-backend",
			ViperKey:    "events.backend",
			Description: "Completion event backend (nop, kafka)",
		},
		FlagBrokers: {
			Name:        "brokers",
			ViperKey:    "events.brokers",
			Description: "Comma-separated Kafka bootstrap brokers",
		},
		FlagTopic: {
			Name:        "topic",
			ViperKey:    "events.topic",
			Description: "Kafka topic for completion events",
		},
		FlagTTSModel: {
			Name:        "tts-model",
			ViperKey:    "tts.model",
			Description: "Speech synthesis model",
		},
		FlagTTSVoice: {
			Name:        "tts-voice",
			ViperKey:    "tts.voice",
			Description: "Speech synthesis voice",
		},
	}
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultUint returns the default uint value for a viper key from NewDefaultConfig.
func defaultUint(viperKey string) uint {
	v := viper.New()
	setViperDefaults(v)
	return v.GetUint(viperKey)
}
