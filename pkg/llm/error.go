package llm

import "fmt"

// PayloadError reports a streaming payload that did not match the
// expected upstream structure. It carries the offending raw payload for
// diagnostics; normalization failures are not recoverable inside the
// streaming core and terminate the enclosing stream.
type PayloadError struct {
	Provider string
	Payload  string
	Err      error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: unparseable stream payload: %v (payload: %q)", e.Provider, e.Err, e.Payload)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}
