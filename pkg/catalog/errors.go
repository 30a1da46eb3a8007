package catalog

import (
	"fmt"
	"strings"
)

// LoadError reports a catalog source that could not be read or does not have
// the expected shape. Err is either the underlying read/parse error or the
// joined set of *FieldError values found during decoding.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load catalog: %v", e.Err)
	}
	return fmt.Sprintf("load catalog %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FieldError describes one shape problem in a catalog source.
//
// Index is the position of the offending component (-1 for catalog-level
// problems). Name is the component name when it could be decoded. Prop is the
// property index inside the component, or -1.
type FieldError struct {
	Index  int
	Name   string
	Prop   int
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	var b strings.Builder
	if e.Index >= 0 {
		fmt.Fprintf(&b, "components[%d]", e.Index)
		if e.Name != "" {
			fmt.Fprintf(&b, " (%s)", e.Name)
		}
		b.WriteString(": ")
	}
	if e.Prop >= 0 {
		fmt.Fprintf(&b, "props[%d]: ", e.Prop)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, "%s %q", e.Reason, e.Field)
	} else {
		b.WriteString(e.Reason)
	}
	return b.String()
}
