package pipeline

import (
	"github.com/papercomputeco/splice/pkg/llm"
	"github.com/papercomputeco/splice/pkg/segment"
)

// FieldHandler receives labeled fields recovered from streamed delta
// content. Nil callbacks are skipped.
type FieldHandler struct {
	// Field is called exactly once per fully resolved field.
	Field func(key, value string) error
	// Preview is called for a field still accumulating at the end of the
	// buffered text. The same key may be previewed repeatedly with a
	// growing value before Field resolves it.
	Preview func(key, value string) error
	// Separator is called when a record boundary resolves.
	Separator func() error
}

// FieldScanner feeds the concatenated content of successive deltas
// through an incremental segment scanner, surfacing labeled fields as
// they become decidable. Fragmentation of the content across deltas
// does not affect which fields resolve.
type FieldScanner struct {
	scanner *segment.Scanner
}

// NewFieldScanner creates a FieldScanner forwarding to h.
func NewFieldScanner(h FieldHandler) *FieldScanner {
	f := &FieldScanner{}
	f.scanner = segment.NewScanner(func(tok segment.Token) error {
		switch t := tok.(type) {
		case segment.KeyValue:
			if h.Field != nil {
				return h.Field(t.Key, t.Value)
			}
		case segment.IncompleteKeyValue:
			if h.Preview != nil {
				return h.Preview(t.Key, t.Value)
			}
		case segment.Separator:
			if h.Separator != nil {
				return h.Separator()
			}
		}
		return nil
	})
	return f
}

// Consume appends a delta's content to the scan buffer and forwards
// whatever now resolves. Deltas without content are ignored.
func (f *FieldScanner) Consume(d *llm.Delta) error {
	if d == nil || d.Content == "" {
		return nil
	}
	return f.scanner.Write(d.Content)
}

// Buffered returns text held back awaiting more input.
func (f *FieldScanner) Buffered() string {
	return f.scanner.Buffered()
}
