package config

const (
	defaultRecorderWorkers   = 3
	defaultRecorderQueueSize = 256

	defaultEventsBackend = "nop"
	defaultEventsBrokers = "localhost:9092"
	defaultEventsTopic   = "splice.completions"

	defaultTTSModel = "tts-1"
	defaultTTSVoice = "alloy"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Recorder: RecorderConfig{
			Workers:   defaultRecorderWorkers,
			QueueSize: defaultRecorderQueueSize,
		},
		Events: EventsConfig{
			Backend: defaultEventsBackend,
			Brokers: defaultEventsBrokers,
			Topic:   defaultEventsTopic,
		},
		TTS: TTSConfig{
			Model: defaultTTSModel,
			Voice: defaultTTSVoice,
		},
	}
}
