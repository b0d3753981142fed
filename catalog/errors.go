package catalog

import "fmt"

// ParseError reports a snapshot kind whose raw document could not be parsed.
// The kind is treated as empty; the rest of the snapshot stays usable.
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("catalog: parse %s: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
