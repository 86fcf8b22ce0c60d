package segment_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/splice/pkg/segment"
)

var _ = Describe("Scanner", func() {
	var (
		got []segment.Token
		sc  *segment.Scanner
	)

	BeforeEach(func() {
		got = nil
		sc = segment.NewScanner(func(t segment.Token) error {
			got = append(got, t)
			return nil
		})
	})

	write := func(fragments ...string) {
		for _, f := range fragments {
			Expect(sc.Write(f)).To(Succeed())
		}
	}

	// resolved filters out provisional previews, leaving the permanent
	// token sequence a consumer would have committed.
	resolved := func() []segment.Token {
		var out []segment.Token
		for _, t := range got {
			if _, preview := t.(segment.IncompleteKeyValue); !preview {
				out = append(out, t)
			}
		}
		return out
	}

	It("forwards resolved tokens exactly once across fragments", func() {
		write("$K1:\nv", "1\n$K2:\nv2", "\n---\n")

		Expect(resolved()).To(Equal([]segment.Token{
			segment.KeyValue{Key: "K1", Value: "v1"},
			segment.KeyValue{Key: "K2", Value: "v2"},
			segment.Separator{},
		}))
	})

	It("previews a growing value under the same key", func() {
		write("$BODY:\nonce", " upon", " a time")

		var previews []segment.IncompleteKeyValue
		for _, t := range got {
			if p, ok := t.(segment.IncompleteKeyValue); ok {
				previews = append(previews, p)
			}
		}
		Expect(previews).To(HaveLen(3))
		Expect(previews[0].Key).To(Equal("BODY"))
		Expect(previews[0].Value).To(Equal("once"))
		Expect(previews[1].Value).To(Equal("once upon"))
		Expect(previews[2].Value).To(Equal("once upon a time"))
	})

	It("produces the same resolved tokens for any fragmentation", func() {
		doc := "$TITLE:\nFirst\n$BODY:\nline one\nline two\n---\n$TITLE:\nSecond\n---\n"

		var whole []segment.Token
		wsc := segment.NewScanner(func(t segment.Token) error {
			if _, preview := t.(segment.IncompleteKeyValue); !preview {
				whole = append(whole, t)
			}
			return nil
		})
		Expect(wsc.Write(doc)).To(Succeed())

		for size := 1; size <= 7; size++ {
			got = nil
			sc = segment.NewScanner(func(t segment.Token) error {
				got = append(got, t)
				return nil
			})
			for i := 0; i < len(doc); i += size {
				end := min(i+size, len(doc))
				write(doc[i:end])
			}
			Expect(resolved()).To(Equal(whole), "fragment size %d", size)
		}
	})

	It("does not mistake a split four-dash line for a separator", func() {
		// "----" prose chunked right after the third dash must resolve
		// identically to the unfragmented document.
		write("$K:\nv\n---", "-\nmore\n$K2:\nv2\n---\n")

		Expect(resolved()).To(Equal([]segment.Token{
			segment.KeyValue{Key: "K", Value: "v\n----\nmore"},
			segment.KeyValue{Key: "K2", Value: "v2"},
			segment.Separator{},
		}))
	})

	It("confirms a trailing separator once its newline arrives", func() {
		write("$K:\nv\n---")
		Expect(resolved()).To(BeEmpty())

		write("\n")
		Expect(resolved()).To(Equal([]segment.Token{
			segment.KeyValue{Key: "K", Value: "v"},
			segment.Separator{},
		}))
	})

	It("loses no bytes across provisional boundaries", func() {
		write("$K:\npartial val")

		// Everything unconsumed is retained verbatim for the next round.
		Expect(sc.Buffered()).To(Equal("$K:\npartial val"))

		write("ue\n---\n")
		Expect(sc.Buffered()).To(BeEmpty())
		Expect(resolved()).To(Equal([]segment.Token{
			segment.KeyValue{Key: "K", Value: "partial value"},
			segment.Separator{},
		}))
	})

	It("holds free text back as unconsumed buffer", func() {
		write("no structure here")

		Expect(got).To(BeEmpty())
		Expect(sc.Buffered()).To(Equal("no structure here"))
	})
})
