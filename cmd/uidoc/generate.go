package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/uidoc/pkg/docgen"
)

func (a *app) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen", "g"},
		Short:   "Render the catalog into the reference document",
		Long: `Load the catalog, render every component in order and replace the
output file atomically. With --output - the document is written to stdout.

A catalog with any missing or mistyped field is rejected as a whole and
nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.docgenConfig()
			res, err := docgen.Generate(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}
			if !cfg.WritesFile() {
				_, err := io.WriteString(cmd.OutOrStdout(), res.Document)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d components, %d bytes)\n",
				cfg.OutputPath, res.Components(), len(res.Document))
			return nil
		},
	}
}
