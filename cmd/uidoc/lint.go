package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnana997/uidoc/pkg/docgen"
)

func (a *app) lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Check the catalog, its snippets and the rendered structure without writing",
		Long: `Load the catalog, parse every import and example snippet and verify the
rendered document. Nothing is written. Exits non-zero when the catalog
does not load, a snippet does not parse or the structure check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.docgenConfig()
			cfg.OutputPath = ""
			cfg.CheckSnippets = true
			cfg.Verify = true

			res, err := docgen.Build(cmd.Context(), cfg, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, is := range res.Issues {
				fmt.Fprintf(out, "%s: %s\n", cfg.CatalogPath, is)
			}
			if len(res.Issues) > 0 {
				return fmt.Errorf("%d snippet issue(s): %w", len(res.Issues), errSnippetIssues)
			}
			fmt.Fprintf(out, "ok: %d components, %d props\n", res.Components(), res.Props())
			return nil
		},
	}
}
