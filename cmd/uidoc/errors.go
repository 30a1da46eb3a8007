package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnana997/uidoc/pkg/catalog"
	"github.com/gnana997/uidoc/pkg/docgen"
	"github.com/gnana997/uidoc/pkg/render"
)

// Exit codes.
const (
	exitFailure = 1
	exitLoad    = 2
	exitWrite   = 3
	exitVerify  = 4
)

// errSnippetIssues fails lint when snippets do not parse.
var errSnippetIssues = errors.New("snippets do not parse")

// describeError renders err for the terminal. Load errors list every
// offending record on its own line.
func describeError(err error) string {
	var le *catalog.LoadError
	if errors.As(err, &le) {
		var fields interface{ Unwrap() []error }
		if errors.As(le.Err, &fields) {
			var b strings.Builder
			fmt.Fprintf(&b, "load catalog %s:", le.Source)
			for _, e := range fields.Unwrap() {
				b.WriteString("\n  ")
				b.WriteString(e.Error())
			}
			return b.String()
		}
	}
	return err.Error()
}

func exitCode(err error) int {
	var (
		le *catalog.LoadError
		we *docgen.WriteError
		ve *render.VerifyError
	)
	switch {
	case errors.As(err, &le):
		return exitLoad
	case errors.As(err, &we):
		return exitWrite
	case errors.As(err, &ve), errors.Is(err, errSnippetIssues):
		return exitVerify
	default:
		return exitFailure
	}
}
