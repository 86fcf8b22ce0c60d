package sse

import (
	"strconv"
	"strings"
)

const bom = "\uFEFF"

// scanCursor remembers how far a previous Feed scanned into the pending
// line, so bytes are never scanned twice. When the buffer is empty the
// cursor is zeroed; otherwise start is the number of pending-line bytes
// already examined and fieldLen is the field-name length found so far
// (-1 while no colon has been seen).
type scanCursor struct {
	start    int
	fieldLen int
}

// Parser is a chunk-fed SSE parser. Feed it fragments of any size, in
// arrival order; it dispatches events through its Handler as their
// terminating blank lines resolve. A Parser is owned by a single caller
// and is not safe for concurrent use.
type Parser struct {
	handler Handler

	buf    string
	cursor scanCursor

	// pending event fields, accumulated until the next blank line.
	pendingID   string
	pendingName string
	pendingData string

	firstChunk bool
	// pendingCR is armed when the last resolved line ended in a lone
	// carriage return, so a '\n' arriving at the start of the next chunk
	// is absorbed instead of producing a phantom blank line.
	pendingCR bool
}

// NewParser creates a Parser dispatching to the given handler.
func NewParser(handler Handler) *Parser {
	return &Parser{handler: handler, firstChunk: true, cursor: scanCursor{fieldLen: -1}}
}

// Reset clears all parser state, beginning a new stream epoch. The next
// Feed is treated as the first chunk again for BOM stripping.
func (p *Parser) Reset() {
	p.buf = ""
	p.cursor = scanCursor{fieldLen: -1}
	p.pendingID = ""
	p.pendingName = ""
	p.pendingData = ""
	p.firstChunk = true
	p.pendingCR = false
}

// Feed appends a fragment to the parse buffer and resolves as many
// complete lines as the buffer now holds, dispatching zero or more events
// before returning. Malformed wire bytes never produce an error; the only
// errors returned are those raised by the Handler callbacks.
func (p *Parser) Feed(chunk string) error {
	if p.firstChunk {
		chunk = strings.TrimPrefix(chunk, bom)
		p.firstChunk = false
	}
	p.buf += chunk

	length := len(p.buf)
	pos := 0

	for pos < length {
		if p.pendingCR {
			if p.buf[pos] == '\n' {
				pos++
			}
			p.pendingCR = false
			continue
		}

		// Resume scanning exactly where the previous Feed left off.
		lineLen := -1
		fieldLen := p.cursor.fieldLen
		for i := pos + p.cursor.start; lineLen < 0 && i < length; i++ {
			switch p.buf[i] {
			case ':':
				if fieldLen < 0 {
					fieldLen = i - pos
				}
			case '\r':
				p.pendingCR = true
				lineLen = i - pos
			case '\n':
				lineLen = i - pos
			}
		}

		if lineLen < 0 {
			// No terminator yet: remember progress and wait for more bytes.
			p.cursor = scanCursor{start: length - pos, fieldLen: fieldLen}
			break
		}
		p.cursor = scanCursor{fieldLen: -1}

		line := p.buf[pos : pos+lineLen]
		pos += lineLen + 1

		if err := p.resolveLine(line, fieldLen); err != nil {
			// The line is consumed; retain only the unresolved suffix so a
			// caller that recovers from its own callback error can continue.
			p.buf = p.buf[pos:]
			return err
		}
	}

	if pos == length {
		p.buf = ""
	} else if pos > 0 {
		p.buf = p.buf[pos:]
	}
	return nil
}

// resolveLine classifies one complete line. fieldLen is the offset of the
// first colon on the line, or -1 when the line has none.
func (p *Parser) resolveLine(line string, fieldLen int) error {
	if len(line) == 0 {
		return p.resolveBlankLine()
	}

	var field, value string
	if fieldLen < 0 {
		// No colon: the whole line is a field name with an empty value.
		field = line
	} else {
		field = line[:fieldLen]
		value = line[fieldLen+1:]
		// A single leading space after the colon is part of the framing.
		value = strings.TrimPrefix(value, " ")
	}

	switch field {
	case "data":
		if value == "" {
			p.pendingData += "\n"
		} else {
			p.pendingData += value + "\n"
		}
	case "event":
		p.pendingName = value
	case "id":
		if !strings.ContainsRune(value, '\x00') {
			p.pendingID = value
		}
	case "retry":
		if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
			if p.handler.Retry != nil {
				return p.handler.Retry(ReconnectInterval{Value: ms})
			}
		}
	default:
		// Unknown fields, including the empty field name produced by
		// comment-style ":..." lines, are ignored per the SSE spec.
	}
	return nil
}

// resolveBlankLine dispatches the pending event, if any. The pending event
// name never survives a blank line, even when nothing was dispatched, so a
// named event with no data lines is silently dropped.
func (p *Parser) resolveBlankLine() error {
	var err error
	if p.pendingData != "" {
		ev := Event{
			ID:   p.pendingID,
			Name: p.pendingName,
			Data: strings.TrimSuffix(p.pendingData, "\n"),
		}
		p.pendingData = ""
		p.pendingID = ""
		if p.handler.Event != nil {
			err = p.handler.Event(ev)
		}
	}
	p.pendingName = ""
	return err
}
