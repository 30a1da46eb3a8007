package render

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/gnana997/uidoc/pkg/catalog"
)

// tableColumns is the number of cells every properties row must split into.
const tableColumns = 5

// VerifyError lists structural problems found in a rendered document.
type VerifyError struct {
	Problems []string
}

func (e *VerifyError) Error() string {
	if len(e.Problems) == 1 {
		return "verify document: " + e.Problems[0]
	}
	return fmt.Sprintf("verify document: %d problems:\n  %s", len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// SplitRow splits a Markdown table row on unescaped pipes, dropping the
// leading and trailing delimiters. Cells are returned untrimmed.
func SplitRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}

	var (
		cells []string
		start int
	)
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '|':
			cells = append(cells, line[start:i])
			start = i + 1
		}
	}
	return append(cells, line[start:])
}

// Verify checks that doc is what this renderer produces for cat: the
// preamble comes first, component headings appear in catalog order, every
// component has one properties table with one row per prop, every table row
// splits into exactly five cells, and both snippets are fenced with the
// configured language.
func (r *Renderer) Verify(doc string, cat *catalog.Catalog) error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if !strings.HasPrefix(doc, r.opts.Preamble) {
		addf("document does not start with the configured preamble")
		return &VerifyError{Problems: problems}
	}
	body := []byte(doc[len(r.opts.Preamble):])

	names := cat.Names()
	var expectRows []int
	if cat != nil {
		for _, c := range cat.Components {
			expectRows = append(expectRows, len(c.Props))
		}
	}

	s := scanBody(body)

	if len(s.headings) != len(names) {
		addf("found %d component headings, want %d", len(s.headings), len(names))
	}
	for i := 0; i < len(s.headings) && i < len(names); i++ {
		if s.headings[i] != names[i] {
			addf("heading %d is %q, want %q", i, s.headings[i], names[i])
		}
	}

	if len(s.tableRows) != len(expectRows) {
		addf("found %d properties tables, want %d", len(s.tableRows), len(expectRows))
	}
	for i := 0; i < len(s.tableRows) && i < len(expectRows); i++ {
		if s.tableRows[i] != expectRows[i] {
			addf("table %d (%s) has %d rows, want %d", i, names[i], s.tableRows[i], expectRows[i])
		}
	}

	if len(s.fenceLangs) != 2*len(names) {
		addf("found %d code blocks, want %d", len(s.fenceLangs), 2*len(names))
	}
	for i, lang := range s.fenceLangs {
		if lang != r.opts.Language {
			addf("code block %d is tagged %q, want %q", i, lang, r.opts.Language)
		}
	}

	for _, row := range tableLines(body) {
		if n := len(SplitRow(row.text)); n != tableColumns {
			addf("line %d splits into %d cells, want %d: %s", row.line, n, tableColumns, row.text)
		}
	}

	if len(problems) > 0 {
		return &VerifyError{Problems: problems}
	}
	return nil
}

type bodyScan struct {
	headings   []string
	tableRows  []int
	fenceLangs []string
}

// scanBody collects level-2 headings, table body row counts and fenced code
// block languages from the component section of a document.
func scanBody(source []byte) bodyScan {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(source))

	var s bodyScan
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 2 {
				s.headings = append(s.headings, nodeText(node, source))
			}
			return ast.WalkSkipChildren, nil
		case *extast.Table:
			rows := 0
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if _, ok := c.(*extast.TableRow); ok {
					rows++
				}
			}
			s.tableRows = append(s.tableRows, rows)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			s.fenceLangs = append(s.fenceLangs, string(node.Language(source)))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return s
}

func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
		case *ast.String:
			b.Write(t.Value)
		default:
			b.WriteString(nodeText(c, source))
		}
	}
	return b.String()
}

type sourceLine struct {
	line int
	text string
}

// tableLines returns the lines outside fenced code blocks that start with a
// table delimiter.
func tableLines(source []byte) []sourceLine {
	var (
		out   []sourceLine
		fence string
	)
	for i, line := range strings.Split(string(source), "\n") {
		trimmed := strings.TrimRight(line, " \t\r")
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, "`") == "" {
				fence = ""
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			fence = trimmed[:len(trimmed)-len(strings.TrimLeft(trimmed, "`"))]
			continue
		}
		if strings.HasPrefix(trimmed, "|") {
			out = append(out, sourceLine{line: i + 1, text: trimmed})
		}
	}
	return out
}
