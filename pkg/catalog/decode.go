package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// scalar is a non-string literal (number or bool) kept as its source text so
// defaults such as `false` or `1.50` survive unchanged.
type scalar struct {
	text string
	kind string
}

// decodeJSON parses data into a generic tree: map[string]any, []any, string,
// scalar or nil.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parse JSON: unexpected data after top-level value")
	}
	return normalizeJSON(raw), nil
}

func normalizeJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalizeJSON(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = normalizeJSON(child)
		}
		return t
	case json.Number:
		return scalar{text: t.String(), kind: "number"}
	case bool:
		if t {
			return scalar{text: "true", kind: "bool"}
		}
		return scalar{text: "false", kind: "bool"}
	default:
		return v
	}
}

// decodeYAML parses data into the same generic tree as decodeJSON, working
// from yaml.Node so scalar text is preserved verbatim.
func decodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	c := &nodeConverter{expanding: make(map[*yaml.Node]bool)}
	return c.convert(&doc)
}

// maxYAMLNodes caps the nodes produced from one document, counting every
// alias expansion, so anchor fan-out cannot exhaust memory.
const maxYAMLNodes = 1 << 20

// nodeConverter turns a yaml.Node tree into the generic tree. It tracks the
// anchors being expanded so self-referencing aliases fail instead of
// recursing forever.
type nodeConverter struct {
	expanding map[*yaml.Node]bool
	nodes     int
}

func (c *nodeConverter) convert(n *yaml.Node) (any, error) {
	c.nodes++
	if c.nodes > maxYAMLNodes {
		return nil, fmt.Errorf("parse YAML: document expands to more than %d nodes", maxYAMLNodes)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return c.convert(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("parse YAML: line %d: unknown anchor %q", n.Line, n.Value)
		}
		if c.expanding[n.Alias] {
			return nil, fmt.Errorf("parse YAML: line %d: alias *%s refers to itself", n.Line, n.Value)
		}
		c.expanding[n.Alias] = true
		defer delete(c.expanding, n.Alias)
		return c.convert(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("parse YAML: line %d: mapping key must be a scalar", key.Line)
			}
			val, err := c.convert(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[key.Value] = val
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			val, err := c.convert(child)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!str", "!!binary":
			return n.Value, nil
		case "!!bool":
			return scalar{text: n.Value, kind: "bool"}, nil
		default:
			return scalar{text: n.Value, kind: strings.TrimPrefix(n.ShortTag(), "!!")}, nil
		}
	default:
		return nil, fmt.Errorf("parse YAML: line %d: unsupported node", n.Line)
	}
}

// kindOf names the decoded type for error messages.
func kindOf(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case scalar:
		return t.kind
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
