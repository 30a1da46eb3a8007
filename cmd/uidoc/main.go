// Command uidoc renders a UI component catalog into a Markdown/MDX
// reference and serves it to AI agents over MCP.
package main

import (
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0-dev"

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).root().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "uidoc: %s\n", describeError(err))
		os.Exit(exitCode(err))
	}
}
