package segment

import (
	"regexp"
	"strings"
)

// separatorMarker delimits documents within one stream.
const separatorMarker = "---"

var keyPattern = regexp.MustCompile(`^\$([A-Z0-9_]+):`)

// Parse extracts as many resolved tokens as buffer allows, in order:
// zero or more KeyValue/Separator tokens followed by exactly one terminal
// token. The terminal is IncompleteKeyValue when the unconsumed tail
// starts a segment whose end is not yet known, RemainingText otherwise.
// Parse never errors; ambiguity about unfinished input is expressed
// through the terminal token.
func Parse(buffer string) []Token {
	rest := trimLeadingBlankLines(buffer)

	var tokens []Token
	for {
		if kv, n, ok := matchCompleteKeyValue(rest); ok {
			tokens = append(tokens, kv)
			rest = rest[n:]
			continue
		}
		if n, ok := matchSeparator(rest); ok {
			tokens = append(tokens, Separator{})
			rest = trimLeadingBlankLines(rest[n:])
			continue
		}
		break
	}

	if m := keyPattern.FindStringSubmatch(rest); m != nil {
		tokens = append(tokens, IncompleteKeyValue{
			Key:       m[1],
			Value:     strings.TrimSpace(rest[len(m[0]):]),
			Remaining: rest,
		})
	} else {
		tokens = append(tokens, RemainingText{Remaining: rest})
	}
	return tokens
}

// matchCompleteKeyValue matches a "$KEY:" segment whose value terminator
// is already in the buffer. n counts the consumed bytes including the
// value's trailing line terminator; the terminator line itself is left
// unconsumed.
func matchCompleteKeyValue(s string) (KeyValue, int, bool) {
	m := keyPattern.FindStringSubmatch(s)
	if m == nil {
		return KeyValue{}, 0, false
	}

	offset := len(m[0])
	for {
		nl := strings.Index(s[offset:], "\n")
		if nl < 0 {
			// End of the value is not in the buffer yet.
			return KeyValue{}, 0, false
		}
		lineStart := offset + nl + 1
		next := s[lineStart:]
		if strings.HasPrefix(next, "$") || isSeparatorLine(next) {
			value := s[len(m[0]) : offset+nl]
			return KeyValue{Key: m[1], Value: strings.TrimSpace(value)}, lineStart, true
		}
		offset = lineStart
	}
}

// matchSeparator matches a separator line at the start of s, consuming
// its line terminator when present.
func matchSeparator(s string) (int, bool) {
	if !isSeparatorLine(s) {
		return 0, false
	}
	n := len(separatorMarker)
	switch {
	case strings.HasPrefix(s[n:], "\r\n"):
		n += 2
	case strings.HasPrefix(s[n:], "\n"):
		n++
	}
	return n, true
}

// isSeparatorLine reports whether s begins with a line consisting solely
// of the separator marker, confirmed by a line terminator. A marker at
// the very end of the buffer stays provisional: the next fragment could
// extend it into ordinary text (e.g. a "----" prose line), so it neither
// terminates a value nor emits a Separator until a newline confirms it.
func isSeparatorLine(s string) bool {
	if !strings.HasPrefix(s, separatorMarker) {
		return false
	}
	rest := s[len(separatorMarker):]
	return strings.HasPrefix(rest, "\n") || strings.HasPrefix(rest, "\r\n")
}

func trimLeadingBlankLines(s string) string {
	for {
		switch {
		case strings.HasPrefix(s, "\r\n"):
			s = s[2:]
		case strings.HasPrefix(s, "\n"):
			s = s[1:]
		default:
			return s
		}
	}
}
