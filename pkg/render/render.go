// Package render turns a component catalog into a single Markdown/MDX
// reference document.
//
// Rendering is a pure fold over the catalog: the same catalog and options
// always produce byte-identical output, and no state is shared between calls.
package render

import (
	_ "embed"
	"strings"

	"github.com/gnana997/uidoc/pkg/catalog"
)

// DefaultLanguage is the snippet language tag used when none is configured.
const DefaultLanguage = "typescript"

// BlockSeparator closes every component block.
const BlockSeparator = "---"

// tableHeader is the fixed five-column properties header.
const tableHeader = "| Name | Type | Default | Options | Description |\n" +
	"| ---- | ---- | ------- | ------- | ----------- |\n"

//go:embed preamble.mdx
var defaultPreamble string

// DefaultPreamble returns the built-in document header.
func DefaultPreamble() string {
	return defaultPreamble
}

// Options configures a Renderer.
type Options struct {
	// Language tags every import and example fence. Empty means DefaultLanguage.
	Language string

	// Preamble is emitted verbatim before the first component block.
	// Empty means DefaultPreamble().
	Preamble string

	// EscapeAllCells escapes the description, default and options cells the
	// way the type cell is always escaped. When false only the type cell is
	// escaped.
	EscapeAllCells bool
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Language:       DefaultLanguage,
		Preamble:       defaultPreamble,
		EscapeAllCells: true,
	}
}

// Renderer renders catalogs with a fixed set of options.
// It holds no mutable state and is safe for concurrent use.
type Renderer struct {
	opts Options
}

// New creates a Renderer, filling empty options with defaults.
func New(opts Options) *Renderer {
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}
	if opts.Preamble == "" {
		opts.Preamble = defaultPreamble
	}
	return &Renderer{opts: opts}
}

// Options returns the effective options.
func (r *Renderer) Options() Options {
	return r.opts
}

// Document renders cat with opts. It is shorthand for New(opts).Render(cat).
func Document(cat *catalog.Catalog, opts Options) string {
	return New(opts).Render(cat)
}

// Render produces the preamble followed by one block per component in
// catalog order.
func (r *Renderer) Render(cat *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(r.opts.Preamble)
	if cat == nil {
		return b.String()
	}
	if len(cat.Components) > 0 && !strings.HasSuffix(r.opts.Preamble, "\n\n") {
		if !strings.HasSuffix(r.opts.Preamble, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	for i := range cat.Components {
		r.writeComponent(&b, &cat.Components[i])
	}
	return b.String()
}

// RenderComponent renders a single component block without the preamble.
func (r *Renderer) RenderComponent(c *catalog.Component) string {
	var b strings.Builder
	r.writeComponent(&b, c)
	return b.String()
}

func (r *Renderer) writeComponent(b *strings.Builder, c *catalog.Component) {
	b.WriteString("## ")
	b.WriteString(c.Name)
	b.WriteString("\n\n")

	b.WriteString("<details>\n<summary>")
	b.WriteString(c.Name)
	b.WriteString("</summary>\n\n")

	b.WriteString(c.Description)
	b.WriteString("\n\n")

	r.writeSnippet(b, c.Import)

	b.WriteString(tableHeader)
	for i := range c.Props {
		r.writeRow(b, &c.Props[i])
	}
	b.WriteString("\n")

	r.writeSnippet(b, c.Example)

	b.WriteString("</details>\n\n")
	b.WriteString(BlockSeparator)
	b.WriteString("\n\n")
}

func (r *Renderer) writeSnippet(b *strings.Builder, code string) {
	fence := codeFence(code)
	b.WriteString(fence)
	b.WriteString(r.opts.Language)
	b.WriteString("\n")
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(fence)
	b.WriteString("\n\n")
}

func (r *Renderer) writeRow(b *strings.Builder, p *catalog.Prop) {
	text := func(s string) string { return s }
	typeText := EscapePipes
	if r.opts.EscapeAllCells {
		text = EscapeCell
		typeText = EscapeCell
	}

	b.WriteString("| ")
	b.WriteString(inlineCode(text(p.Name)))
	b.WriteString(" | ")
	b.WriteString(inlineCode(typeText(p.Type)))
	b.WriteString(" | ")
	if p.Default != "" {
		b.WriteString(inlineCode(text(p.Default)))
	}
	b.WriteString(" | ")
	if len(p.Options) > 0 {
		b.WriteString(optionsCell(p.Options, text))
	}
	b.WriteString(" | ")
	b.WriteString(text(p.Description))
	b.WriteString(" |\n")
}

// optionsCell renders allowed values as a comma separated run of code spans.
func optionsCell(options []string, text func(string) string) string {
	parts := make([]string, len(options))
	for i, o := range options {
		parts[i] = inlineCode(text(o))
	}
	return strings.Join(parts, ", ")
}

// inlineCode wraps s in backticks. Values that themselves contain backticks
// get a longer delimiter padded with spaces, as CommonMark requires.
func inlineCode(s string) string {
	if !strings.Contains(s, "`") {
		return "`" + s + "`"
	}
	delim := strings.Repeat("`", longestRun(s)+1)
	return delim + " " + s + " " + delim
}
