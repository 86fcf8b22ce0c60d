package segment

import "fmt"

// Scanner applies Parse incrementally to text arriving in fragments.
// Resolved KeyValue and Separator tokens are forwarded exactly once;
// IncompleteKeyValue previews are forwarded on every pass that produces
// them, so the emit callback may observe the same key repeatedly with a
// growing value. RemainingText is consumed silently. A Scanner is owned
// by a single caller and is not safe for concurrent use.
type Scanner struct {
	buf  string
	emit func(Token) error
}

// NewScanner creates a Scanner forwarding tokens to emit.
func NewScanner(emit func(Token) error) *Scanner {
	return &Scanner{emit: emit}
}

// Write appends a fragment and forwards whatever the grown buffer now
// resolves. The buffer is rewound to the terminal token's remainder
// before forwarding, so an emit error aborts the pass without
// re-consuming or re-parsing input on the next Write.
func (s *Scanner) Write(fragment string) error {
	s.buf += fragment

	tokens := Parse(s.buf)
	switch t := tokens[len(tokens)-1].(type) {
	case IncompleteKeyValue:
		s.buf = t.Remaining
	case RemainingText:
		s.buf = t.Remaining
	default:
		// Parse's contract guarantees the last token of every pass is
		// terminal; reaching this point means the parser itself is broken.
		panic(fmt.Sprintf("segment: parse pass ended without a terminal token (%T)", t))
	}

	for _, tok := range tokens {
		if _, silent := tok.(RemainingText); silent {
			continue
		}
		if err := s.emit(tok); err != nil {
			return err
		}
	}
	return nil
}

// Buffered returns the text currently held back awaiting more input.
func (s *Scanner) Buffered() string {
	return s.buf
}
