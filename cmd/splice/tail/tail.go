// Package tailcmder provides the tail command for streaming an SSE source
// into canonical deltas.
package tailcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/splice/pkg/cliui"
	"github.com/papercomputeco/splice/pkg/config"
	"github.com/papercomputeco/splice/pkg/credentials"
	"github.com/papercomputeco/splice/pkg/eventstream"
	"github.com/papercomputeco/splice/pkg/eventstream/kafka"
	"github.com/papercomputeco/splice/pkg/eventstream/nop"
	"github.com/papercomputeco/splice/pkg/llm"
	llmprovider "github.com/papercomputeco/splice/pkg/llm/provider"
	"github.com/papercomputeco/splice/pkg/logger"
	"github.com/papercomputeco/splice/pkg/mux"
	"github.com/papercomputeco/splice/pkg/pipeline"
	"github.com/papercomputeco/splice/pkg/recorder"
	"github.com/papercomputeco/splice/pkg/recorder/inmemory"
	"github.com/papercomputeco/splice/pkg/tts/openaispeech"
	"github.com/papercomputeco/splice/pkg/utils"
)

type TailCommander struct {
	providerType  string
	source        string
	workers       uint
	queueSize     uint
	eventsBackend string
	brokers       string
	topic         string
	speak         bool
	ttsModel      string
	ttsVoice      string
	configDir     string
	debug         bool
	json          bool
	logger        *slog.Logger
}

const tailLongDesc string = `Tail an SSE stream and print canonical deltas.

Reads server-sent events from a URL (or stdin when no source is given),
normalizes each provider payload into a canonical delta, and prints the
content as it arrives. Several comma-separated sources are merged into
one stream in arrival order. When the stream completes, the full
transcript is recorded and a completion event is published to the
configured backend.

The provider adapter is auto-detected from the first payload unless
--provider pins one explicitly.

Examples:
  splice tail -s https://api.openai.com/v1/chat/completions
  splice tail -s https://a.example/stream,https://b.example/stream
  cat capture.txt | splice tail
  cat capture.txt | splice tail --provider anthropic
  splice tail --events-backend kafka --brokers localhost:9092`

const tailShortDesc string = "Tail an SSE stream and print canonical deltas"

func NewTailCmd() *cobra.Command {
	cmder := &TailCommander{}
	fs := config.DefaultFlagSet()

	cmd := &cobra.Command{
		Use:   "tail",
		Short: tailShortDesc,
		Long:  tailLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.json, _ = cmd.Flags().GetBool("json")
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, fs, []string{
				config.FlagProvider,
				config.FlagSource,
				config.FlagWorkers,
				config.FlagQueueSize,
				config.FlagEventsBackend,
				config.FlagBrokers,
				config.FlagTopic,
				config.FlagTTSModel,
				config.FlagTTSVoice,
			})

			cmder.providerType = v.GetString("stream.provider")
			cmder.source = v.GetString("stream.source")
			cmder.workers = v.GetUint("recorder.workers")
			cmder.queueSize = v.GetUint("recorder.queue_size")
			cmder.eventsBackend = v.GetString("events.backend")
			cmder.brokers = v.GetString("events.brokers")
			cmder.topic = v.GetString("events.topic")
			cmder.ttsModel = v.GetString("tts.model")
			cmder.ttsVoice = v.GetString("tts.voice")
			if !cmder.speak {
				cmder.speak = v.GetBool("tts.enabled")
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, fs, config.FlagProvider, &cmder.providerType)
	config.AddStringFlag(cmd, fs, config.FlagSource, &cmder.source)
	config.AddUintFlag(cmd, fs, config.FlagWorkers, &cmder.workers)
	config.AddUintFlag(cmd, fs, config.FlagQueueSize, &cmder.queueSize)
	config.AddStringFlag(cmd, fs, config.FlagEventsBackend, &cmder.eventsBackend)
	config.AddStringFlag(cmd, fs, config.FlagBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, fs, config.FlagTopic, &cmder.topic)
	config.AddStringFlag(cmd, fs, config.FlagTTSModel, &cmder.ttsModel)
	config.AddStringFlag(cmd, fs, config.FlagTTSVoice, &cmder.ttsVoice)
	cmd.Flags().BoolVar(&cmder.speak, "speak", false, "Synthesize the completed content to a PCM file")

	return cmd
}

func (c *TailCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(c.json),
		logger.WithPretty(!c.json),
		logger.WithWriter(os.Stderr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := []pipeline.Option{pipeline.WithLogger(c.logger)}
	if c.providerType != "" {
		p, err := llmprovider.New(c.providerType)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithProvider(p))
	}

	streams, err := c.openStreams(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		for _, ds := range streams {
			ds.Close()
		}
	}()

	// A single source is consumed directly; several interleave in arrival
	// order through a fan-in merge.
	var feed mux.Stream[*llm.Delta] = streams[0]
	if len(streams) > 1 {
		sources := make([]mux.Stream[*llm.Delta], len(streams))
		for i, ds := range streams {
			sources[i] = ds
		}
		feed = mux.Merge(ctx, sources...)
	}
	defer feed.Close()

	publisher, err := c.createPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	driver := inmemory.NewDriver()
	defer driver.Close()

	pool, err := recorder.NewPool(&recorder.Config{
		Driver:     driver,
		Publisher:  publisher,
		NumWorkers: c.workers,
		QueueSize:  c.queueSize,
		Logger:     c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating recorder pool: %w", err)
	}

	fields := make(map[string]string)
	scanner := pipeline.NewFieldScanner(pipeline.FieldHandler{
		Field: func(key, value string) error {
			fields[key] = value
			c.logger.Debug("field resolved", "key", key, "value", utils.Truncate(value, 60))
			return nil
		},
	})

	c.logger.Info("tailing stream",
		"source", c.sourceName(),
		"provider", c.providerName(),
		"events_backend", c.backendName(),
	)

	var content strings.Builder
	for {
		delta, err := feed.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		fmt.Print(delta.Content)
		content.WriteString(delta.Content)

		if err := scanner.Consume(delta); err != nil {
			return fmt.Errorf("scanning fields: %w", err)
		}
	}
	fmt.Println()

	usage := llm.Usage{}
	for _, ds := range streams {
		u := ds.Usage()
		usage.PromptTokens += u.PromptTokens
		usage.CompletionTokens += u.CompletionTokens
		if u.Model != "" {
			usage.Model = u.Model
		}
	}
	rec := &recorder.Record{
		RequestID:   uuid.New(),
		Model:       usage.Model,
		Content:     content.String(),
		Usage:       usage,
		Fields:      fields,
		CompletedAt: time.Now().UTC(),
	}
	if !pool.Enqueue(rec) {
		c.logger.Warn("recorder queue full, transcript dropped", "request_id", rec.RequestID)
	}
	pool.Close()

	c.printSummary(rec)

	if c.speak && content.Len() > 0 {
		if err := c.synthesize(ctx, rec); err != nil {
			return err
		}
	}

	return nil
}

// sources splits the configured source into individual endpoints. Empty
// config means one stdin source.
func (c *TailCommander) sources() []string {
	var out []string
	for _, s := range strings.Split(c.source, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}

// openStreams opens one delta stream per configured source.
func (c *TailCommander) openStreams(ctx context.Context, opts []pipeline.Option) ([]*pipeline.DeltaStream, error) {
	var streams []*pipeline.DeltaStream
	for _, src := range c.sources() {
		body, err := c.openSource(ctx, src)
		if err != nil {
			for _, ds := range streams {
				ds.Close()
			}
			return nil, err
		}
		streams = append(streams, pipeline.NewDeltaStream(body, opts...))
	}
	return streams, nil
}

// openSource returns the SSE byte stream: an HTTP response body when a
// source URL is given, stdin otherwise.
func (c *TailCommander) openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	if source == "" {
		return io.NopCloser(os.Stdin), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	if c.providerType != "" {
		if key := c.storedKey(); key != "" {
			req.Header.Set("Authorization", "Bearer "+key)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", source, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status from %s: %s", source, resp.Status)
	}

	return resp.Body, nil
}

// storedKey looks up the stored credential for the pinned provider.
// Missing credentials are not an error; public endpoints need none.
func (c *TailCommander) storedKey() string {
	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return ""
	}
	key, err := mgr.GetKey(c.providerType)
	if err != nil {
		return ""
	}
	return key
}

func (c *TailCommander) createPublisher() (eventstream.Publisher, error) {
	switch c.eventsBackend {
	case "", "nop":
		return nop.NewPublisher(), nil
	case "kafka":
		return kafka.NewPublisher(kafka.Config{
			Brokers: strings.Split(c.brokers, ","),
			Topic:   c.topic,
		})
	default:
		return nil, fmt.Errorf("unknown events backend: %q (valid: nop, kafka)", c.eventsBackend)
	}
}

func (c *TailCommander) synthesize(ctx context.Context, rec *recorder.Record) error {
	mgr, err := credentials.NewManager(c.configDir)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}

	synth, err := openaispeech.NewSynthesizer(openaispeech.Config{
		Model:  c.ttsModel,
		Voice:  c.ttsVoice,
		Tokens: credentials.NewStatic(mgr, "openai"),
	})
	if err != nil {
		return err
	}
	defer synth.Close()

	path := fmt.Sprintf("splice-%s.pcm", rec.RequestID)
	err = cliui.Step(os.Stderr, "Synthesizing speech", func() error {
		clip, err := synth.Synthesize(ctx, rec.Content)
		if err != nil {
			return err
		}
		return os.WriteFile(path, clip.Audio, 0o644)
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "  %s %s\n",
		cliui.KeyStyle.Render("Audio:"),
		cliui.ValueStyle.Render(path),
	)
	return nil
}

func (c *TailCommander) printSummary(rec *recorder.Record) {
	fmt.Fprintf(os.Stderr, "\n  %s\n\n", cliui.HeaderStyle.Render("Stream complete"))

	model := rec.Model
	if model == "" {
		model = "<unknown>"
	}
	fmt.Fprintf(os.Stderr, "  %s  %s\n",
		cliui.KeyStyle.Render("Model:"),
		cliui.ValueStyle.Render(model),
	)
	fmt.Fprintf(os.Stderr, "  %s  %s\n",
		cliui.KeyStyle.Render("Tokens:"),
		cliui.ValueStyle.Render(fmt.Sprintf("%d prompt / %d completion",
			rec.Usage.PromptTokens, rec.Usage.CompletionTokens)),
	)

	for key, value := range rec.Fields {
		fmt.Fprintf(os.Stderr, "  %s  %s\n",
			cliui.KeyStyle.Render("$"+key+":"),
			cliui.ValueStyle.Render(utils.Truncate(value, 72)),
		)
	}

	fmt.Fprintf(os.Stderr, "  %s  %s\n\n",
		cliui.KeyStyle.Render("Request:"),
		cliui.DimStyle.Render(rec.RequestID.String()),
	)
}

func (c *TailCommander) sourceName() string {
	if c.source == "" {
		return "stdin"
	}
	return c.source
}

func (c *TailCommander) providerName() string {
	if c.providerType == "" {
		return "auto"
	}
	return c.providerType
}

func (c *TailCommander) backendName() string {
	if c.eventsBackend == "" {
		return "nop"
	}
	return c.eventsBackend
}
