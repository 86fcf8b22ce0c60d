// Package segment extracts labeled key/value segments from text that
// arrives in fragments, typically the concatenated content of a streaming
// model response. The grammar is line-oriented: a segment begins at the
// start of a line with "$KEY:" (keys are [A-Z0-9_]+), its value runs
// across lines until the next "$"-prefixed line start or a separator line
// consisting solely of "---", which marks a document boundary.
//
// Parse is a pure function of its buffer; Scanner layers incremental
// consumption on top for token-by-token input.
package segment

// Token is a sealed sum type produced by Parse. The concrete types are
// KeyValue, IncompleteKeyValue, Separator and RemainingText. The
// unexported marker method prevents external implementations.
type Token interface {
	token()
}

// KeyValue is a fully resolved segment. Terminal and immutable: once
// emitted, the segment's text has been consumed and will not be revisited.
type KeyValue struct {
	Key   string
	Value string
}

func (KeyValue) token() {}

// IncompleteKeyValue is a provisional preview of a segment whose value is
// still accumulating. The same key may be reported repeatedly with a
// growing Value as more fragments arrive. Remaining holds the entire
// unconsumed buffer, which a streaming caller feeds back in on the next
// round.
type IncompleteKeyValue struct {
	Key       string
	Value     string
	Remaining string
}

func (IncompleteKeyValue) token() {}

// Separator is a document-boundary marker: a line consisting solely of
// the "---" marker.
type Separator struct{}

func (Separator) token() {}

// RemainingText indicates nothing parseable yet; Remaining holds the
// entire unconsumed buffer.
type RemainingText struct {
	Remaining string
}

func (RemainingText) token() {}

// terminal reports whether the token resolves the need-more-input
// question for a parse pass. Exactly one terminal token ends every Parse
// result.
func terminal(t Token) bool {
	switch t.(type) {
	case IncompleteKeyValue, RemainingText:
		return true
	}
	return false
}
