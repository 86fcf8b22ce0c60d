package pipeline_test

import (
	"context"
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/splice/pkg/llm"
	"github.com/papercomputeco/splice/pkg/llm/provider/openai"
	"github.com/papercomputeco/splice/pkg/pipeline"
)

// sseBody builds an SSE document with one data event per payload.
func sseBody(payloads ...string) io.ReadCloser {
	var b strings.Builder
	for _, p := range payloads {
		b.WriteString("data: ")
		b.WriteString(p)
		b.WriteString("\n\n")
	}
	return io.NopCloser(strings.NewReader(b.String()))
}

func openaiChunk(content, finish string) string {
	var b strings.Builder
	b.WriteString(`{"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4o","choices":[{"index":0,"delta":{"content":"`)
	b.WriteString(content)
	b.WriteString(`"}`)
	if finish != "" {
		b.WriteString(`,"finish_reason":"` + finish + `"`)
	}
	b.WriteString(`}]}`)
	return b.String()
}

var _ = Describe("DeltaStream", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("yields content deltas and ends at the done sentinel", func() {
		ds := pipeline.NewDeltaStream(sseBody(
			openaiChunk("Hello", ""),
			openaiChunk(", world", "stop"),
			llm.DoneSentinel,
		))

		first, err := ds.Next(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Content).To(Equal("Hello"))
		Expect(first.Last).To(BeFalse())

		second, err := ds.Next(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Content).To(Equal(", world"))
		Expect(second.Last).To(BeTrue())

		_, err = ds.Next(ctx)
		Expect(err).To(MatchError(io.EOF))
	})

	It("ends at source exhaustion without a sentinel", func() {
		ds := pipeline.NewDeltaStream(sseBody(openaiChunk("hi", "")))

		_, err := ds.Next(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = ds.Next(ctx)
		Expect(err).To(MatchError(io.EOF))
	})

	It("detects the provider from the first payload", func() {
		ds := pipeline.NewDeltaStream(sseBody(openaiChunk("x", "")))

		_, err := ds.Next(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ds.Provider().Name()).To(Equal("openai"))
	})

	It("fails when no adapter recognizes the payload", func() {
		ds := pipeline.NewDeltaStream(sseBody(`{"hello":"world"}`))

		_, err := ds.Next(ctx)
		Expect(errors.Is(err, pipeline.ErrUnknownProvider)).To(BeTrue())
	})

	It("folds metadata-only payloads into usage without yielding them", func() {
		usageOnly := `{"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4o","choices":[],"usage":{"prompt_tokens":12,"completion_tokens":34}}`
		ds := pipeline.NewDeltaStream(sseBody(
			openaiChunk("a", ""),
			usageOnly,
			llm.DoneSentinel,
		))

		d, err := ds.Next(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(d.Content).To(Equal("a"))

		_, err = ds.Next(ctx)
		Expect(err).To(MatchError(io.EOF))

		usage := ds.Usage()
		Expect(usage.Model).To(Equal("gpt-4o"))
		Expect(usage.PromptTokens).To(Equal(12))
		Expect(usage.CompletionTokens).To(Equal(34))
	})

	It("stops emitting after a normalization fault", func() {
		ds := pipeline.NewDeltaStream(
			sseBody(openaiChunk("ok", ""), `{not json`, openaiChunk("never seen", "")),
			pipeline.WithProvider(openai.New()),
		)

		_, err := ds.Next(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, err = ds.Next(ctx)
		var perr *llm.PayloadError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Payload).To(Equal(`{not json`))

		// The fault is sticky.
		_, again := ds.Next(ctx)
		Expect(again).To(MatchError(err))
	})

	It("honors context cancellation at payload boundaries", func() {
		ds := pipeline.NewDeltaStream(sseBody(openaiChunk("x", "")))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := ds.Next(cancelled)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("closes the underlying body exactly once", func() {
		body := &countingCloser{ReadCloser: sseBody(llm.DoneSentinel)}
		ds := pipeline.NewDeltaStream(body)

		Expect(ds.Close()).To(Succeed())
		Expect(ds.Close()).To(Succeed())
		Expect(body.closes).To(Equal(1))
	})
})

type countingCloser struct {
	io.ReadCloser
	closes int
}

func (c *countingCloser) Close() error {
	c.closes++
	return c.ReadCloser.Close()
}
