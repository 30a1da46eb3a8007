package docgen

import "fmt"

// WriteError reports that the rendered document could not be written.
// The previous destination, if any, is left untouched.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// PreambleError reports an unreadable preamble override.
type PreambleError struct {
	Path string
	Err  error
}

func (e *PreambleError) Error() string {
	return fmt.Sprintf("read preamble %s: %v", e.Path, e.Err)
}

func (e *PreambleError) Unwrap() error { return e.Err }
