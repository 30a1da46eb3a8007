package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uidoc/pkg/catalog"
	"github.com/gnana997/uidoc/pkg/render"
)

const maxWidth = 80

func (a *app) inspectCmd() *cobra.Command {
	var (
		showExample bool
		markdown    bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <name>",
		Short: "Show one component's import, props and example",
		Long: `Print a human-readable summary of one catalog component. With
--markdown the exact block written to the reference is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.docgenConfig()
			cat, err := catalog.LoadFile(cfg.CatalogPath, catalog.LoadOptions{})
			if err != nil {
				return err
			}

			comp, ok := findComponent(cat, args[0])
			if !ok {
				return fmt.Errorf("component %q not found in %s", args[0], cfg.CatalogPath)
			}

			out := cmd.OutOrStdout()
			if markdown {
				r := render.New(render.Options{Language: cfg.Language, EscapeAllCells: cfg.EscapeAllCells})
				_, err := io.WriteString(out, r.RenderComponent(comp))
				return err
			}
			printComponentHuman(out, comp, showExample)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showExample, "example", "e", false, "include the usage example")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print the rendered Markdown block")
	return cmd
}

// findComponent looks name up exactly, then case-insensitively.
func findComponent(cat *catalog.Catalog, name string) (*catalog.Component, bool) {
	if c, ok := cat.Component(name); ok {
		return c, true
	}
	for i := range cat.Components {
		if strings.EqualFold(cat.Components[i].Name, name) {
			return &cat.Components[i], true
		}
	}
	return nil, false
}

// printComponentHuman prints a human-readable component summary.
func printComponentHuman(w io.Writer, comp *catalog.Component, showExample bool) {
	fmt.Fprintf(w, "%s  (%d props)\n", comp.Name, len(comp.Props))

	if comp.Description != "" {
		fmt.Fprintln(w)
		printWrapped(w, comp.Description, 0, maxWidth)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Import")
	for _, line := range strings.Split(comp.Import, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}

	fmt.Fprintln(w)
	printPropsSection(w, "Props", comp.Props)

	if showExample {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Example")
		fmt.Fprintln(w, "  "+strings.Repeat("─", 40))
		for _, line := range strings.Split(comp.Example, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, title string, props []catalog.Prop) {
	if len(props) == 0 {
		fmt.Fprintf(w, "%s  (none)\n", title)
		return
	}

	fmt.Fprintln(w, title)

	nameW := len("NAME")
	typeW := len("TYPE")
	defW := len("DEFAULT")
	for _, p := range props {
		nameW = max(nameW, len(p.Name))
		typeW = max(typeW, len(p.Type))
		defW = max(defW, len(defaultText(p.Default)))
	}

	sepLen := nameW + typeW + defW + 4
	fmt.Fprintf(w, "  %-*s  %-*s  %-*s\n", nameW, "NAME", typeW, "TYPE", defW, "DEFAULT")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", sepLen))

	indent := strings.Repeat(" ", nameW)
	for _, p := range props {
		fmt.Fprintf(w, "  %-*s  %-*s  %-*s\n", nameW, p.Name, typeW, p.Type, defW, defaultText(p.Default))
		if p.Description != "" {
			fmt.Fprintf(w, "  %s  %s\n", indent, p.Description)
		}
		if len(p.Options) > 0 {
			fmt.Fprintf(w, "  %s  options: %s\n", indent, wrapOptions(strings.Join(p.Options, " | "), nameW+13))
		}
	}
}

func defaultText(def string) string {
	if def == "" {
		return "—"
	}
	return def
}

// wrapOptions wraps the options string if it exceeds maxWidth.
func wrapOptions(options string, indent int) string {
	if indent+len(options) <= maxWidth {
		return options
	}
	parts := strings.Split(options, " | ")
	var sb strings.Builder
	lineLen := indent
	for i, part := range parts {
		addition := len(part)
		if i > 0 {
			addition += 3 // " | "
		}
		if lineLen+addition > maxWidth && i > 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", indent))
			lineLen = indent
		}
		if i > 0 {
			sb.WriteString(" | ")
			lineLen += 3
		}
		sb.WriteString(part)
		lineLen += len(part)
	}
	return sb.String()
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else if line == prefix {
			line += word
		} else {
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
