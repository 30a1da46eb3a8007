// Package snippet checks that catalog import and example snippets parse in
// the configured snippet language.
//
// Problems are reported as Issues. They are warnings: the rendered document
// never depends on them.
package snippet

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uidoc/pkg/catalog"
	"github.com/gnana997/uidoc/pkg/parser"
)

// Field names the snippet an Issue refers to.
const (
	FieldImport  = "import"
	FieldExample = "example"
)

// Issue is one syntax problem in a snippet. Line and Column are 1-based and
// relative to the snippet.
type Issue struct {
	Component string `json:"component"`
	Field     string `json:"field"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Message   string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s:%d:%d: %s", i.Component, i.Field, i.Line, i.Column, i.Message)
}

// Checker parses snippets with the grammar behind a snippet language tag.
type Checker struct {
	manager *parser.Manager
	lang    parser.Language
	tag     string
}

// NewChecker creates a Checker for the given snippet language tag.
func NewChecker(manager *parser.Manager, tag string) *Checker {
	return &Checker{manager: manager, lang: parser.FromSnippetTag(tag), tag: tag}
}

// Supported reports whether the tag maps to a grammar. Unsupported checkers
// report no issues.
func (c *Checker) Supported() bool {
	return c.lang != parser.LanguageUnknown
}

// Check parses the import and example of every component in catalog order.
func (c *Checker) Check(cat *catalog.Catalog) ([]Issue, error) {
	if !c.Supported() || cat == nil {
		return nil, nil
	}
	var issues []Issue
	for i := range cat.Components {
		comp := &cat.Components[i]
		for _, f := range []struct{ name, code string }{
			{FieldImport, comp.Import},
			{FieldExample, comp.Example},
		} {
			found, err := c.CheckSnippet(f.code)
			if err != nil {
				return issues, fmt.Errorf("check %s %s: %w", comp.Name, f.name, err)
			}
			for _, is := range found {
				is.Component = comp.Name
				is.Field = f.name
				issues = append(issues, is)
			}
		}
	}
	return issues, nil
}

// CheckSnippet parses one snippet and returns at most one Issue: the first
// syntax error in document order.
func (c *Checker) CheckSnippet(code string) ([]Issue, error) {
	if !c.Supported() {
		return nil, nil
	}
	source := []byte(code)
	tree, err := c.manager.Parse(source, c.lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}
	node := firstError(root)
	if node == nil {
		node = root
	}
	pos := node.StartPosition()
	return []Issue{{
		Line:    int(pos.Row) + 1,
		Column:  int(pos.Column) + 1,
		Message: describe(node, source),
	}}, nil
}

// firstError finds the first ERROR or MISSING node in pre-order.
func firstError(n *ts.Node) *ts.Node {
	if n == nil {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if found := firstError(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

func describe(n *ts.Node, source []byte) string {
	if n.IsMissing() {
		return fmt.Sprintf("missing %s", n.Kind())
	}
	start, end := n.StartByte(), n.EndByte()
	if end > uint(len(source)) {
		end = uint(len(source))
	}
	if end-start > 24 {
		end = start + 24
	}
	if start >= end {
		return "syntax error"
	}
	return fmt.Sprintf("syntax error near %q", source[start:end])
}
