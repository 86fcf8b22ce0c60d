package sse_test

import (
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/splice/pkg/sse"
)

// drizzleReader returns one byte per Read call, forcing the Reader to
// reassemble events from maximally fragmented input.
type drizzleReader struct {
	s   string
	pos int
}

func (d *drizzleReader) Read(p []byte) (int, error) {
	if d.pos >= len(d.s) {
		return 0, io.EOF
	}
	p[0] = d.s[d.pos]
	d.pos++
	return 1, nil
}

var _ = Describe("Reader", func() {
	It("yields events from a contiguous source", func() {
		r := sse.NewReader(strings.NewReader("data: first\n\ndata: second\n\n"))

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("first"))

		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("second"))

		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})

	It("yields the same events from a one-byte-at-a-time source", func() {
		doc := "event: delta\ndata: hello\ndata: world\n\n"
		r := sse.NewReader(&drizzleReader{s: doc})

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Name).To(Equal("delta"))
		Expect(ev.Data).To(Equal("hello\nworld"))
	})

	It("discards an event with no terminating blank line", func() {
		r := sse.NewReader(strings.NewReader("data: unterminated"))

		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})

	It("surfaces non-EOF source errors", func() {
		r := sse.NewReader(iotest{})

		_, err := r.Next()
		Expect(err).To(MatchError("source torn down"))
	})

	It("starts a fresh epoch on Reset", func() {
		r := sse.NewReader(strings.NewReader("data: a\n\n"))
		ev, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("a"))

		r.Reset(strings.NewReader("\uFEFFdata: b\n\n"))
		ev, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Data).To(Equal("b"))
	})
})

type iotest struct{}

func (iotest) Read([]byte) (int, error) { return 0, errFailed }

var errFailed = errUnavailable("source torn down")

type errUnavailable string

func (e errUnavailable) Error() string { return string(e) }
