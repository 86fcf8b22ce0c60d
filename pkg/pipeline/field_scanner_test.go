package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/splice/pkg/llm"
	"github.com/papercomputeco/splice/pkg/pipeline"
)

var _ = Describe("FieldScanner", func() {
	type field struct{ key, value string }

	var (
		fields     []field
		previews   []field
		separators int
		scanner    *pipeline.FieldScanner
	)

	BeforeEach(func() {
		fields = nil
		previews = nil
		separators = 0
		scanner = pipeline.NewFieldScanner(pipeline.FieldHandler{
			Field: func(key, value string) error {
				fields = append(fields, field{key, value})
				return nil
			},
			Preview: func(key, value string) error {
				previews = append(previews, field{key, value})
				return nil
			},
			Separator: func() error {
				separators++
				return nil
			},
		})
	})

	feed := func(chunks ...string) {
		for _, c := range chunks {
			Expect(scanner.Consume(&llm.Delta{Content: c})).To(Succeed())
		}
	}

	It("resolves each field exactly once regardless of fragmentation", func() {
		feed("$TIT", "LE: Streaming", " parsers\n$BO", "DY: are fiddly\n$END: done\n")

		Expect(fields).To(Equal([]field{
			{"TITLE", "Streaming parsers"},
			{"BODY", "are fiddly"},
		}))
		Expect(scanner.Buffered()).To(Equal("$END: done\n"))
	})

	It("previews a field while it accumulates", func() {
		feed("$SUMMARY: first", " second")

		Expect(previews).To(Equal([]field{
			{"SUMMARY", "first"},
			{"SUMMARY", "first second"},
		}))
		Expect(fields).To(BeEmpty())
	})

	It("reports record boundaries", func() {
		feed("$A: one\n---\n$B: two\n---\n")

		Expect(fields).To(Equal([]field{{"A", "one"}, {"B", "two"}}))
		Expect(separators).To(Equal(2))
	})

	It("ignores deltas without content", func() {
		Expect(scanner.Consume(nil)).To(Succeed())
		Expect(scanner.Consume(&llm.Delta{})).To(Succeed())
		Expect(fields).To(BeEmpty())
		Expect(previews).To(BeEmpty())
	})
})
