package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Catalog holds the ordered component list. It is built once by the loader
// and treated as read-only afterwards.
type Catalog struct {
	Components []Component `json:"components" yaml:"components"`

	byName map[string]*Component
}

// New builds a Catalog from already materialized components, keeping their
// order. Callers are expected to pass unique names.
func New(components []Component) *Catalog {
	c := &Catalog{Components: components}
	c.buildIndex()
	return c
}

func (c *Catalog) buildIndex() {
	c.byName = make(map[string]*Component, len(c.Components))
	for i := range c.Components {
		c.byName[c.Components[i].Name] = &c.Components[i]
	}
}

// Len returns the number of components.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Components)
}

// Component looks up a component by exact name.
func (c *Catalog) Component(name string) (*Component, bool) {
	if c == nil {
		return nil, false
	}
	if c.byName == nil {
		// Built as a struct literal rather than through New.
		for i := range c.Components {
			if c.Components[i].Name == name {
				return &c.Components[i], true
			}
		}
		return nil, false
	}
	comp, ok := c.byName[name]
	return comp, ok
}

// Names returns component names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, c.Len())
	if c == nil {
		return names
	}
	for _, comp := range c.Components {
		names = append(names, comp.Name)
	}
	return names
}

// FormatFromPath picks the catalog format from a file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads a catalog file once and decodes it.
func LoadFile(path string, opts LoadOptions) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	cat, err := LoadBytes(data, FormatFromPath(path), opts)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source = path
		}
		return nil, err
	}
	return cat, nil
}

// LoadBytes decodes a catalog from raw bytes. Loading is all-or-nothing: any
// shape problem fails the whole load with a *LoadError listing every problem.
func LoadBytes(data []byte, format Format, opts LoadOptions) (*Catalog, error) {
	var (
		raw any
		err error
	)
	switch format {
	case FormatYAML:
		raw, err = decodeYAML(data)
	case FormatJSON, "":
		raw, err = decodeJSON(data)
	default:
		err = fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, &LoadError{Err: err}
	}

	components, errs := buildComponents(raw)
	if len(errs) > 0 {
		return nil, &LoadError{Err: errors.Join(errs...)}
	}

	if opts.Sort {
		sort.SliceStable(components, func(i, j int) bool {
			return components[i].Name < components[j].Name
		})
	}
	return New(components), nil
}

// buildComponents checks the decoded tree against the catalog shape and
// converts it. It keeps going after a problem so that every problem in the
// source is reported at once.
func buildComponents(raw any) ([]Component, []error) {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil, []error{&FieldError{Index: -1, Prop: -1, Reason: fmt.Sprintf("catalog must be an object, got %s", kindOf(raw))}}
	}
	rawList, ok := root["components"]
	if !ok {
		return nil, []error{&FieldError{Index: -1, Prop: -1, Field: "components", Reason: "missing required field"}}
	}
	list, ok := rawList.([]any)
	if !ok {
		return nil, []error{&FieldError{Index: -1, Prop: -1, Field: "components", Reason: fmt.Sprintf("expected array, got %s for field", kindOf(rawList))}}
	}

	var errs []error
	components := make([]Component, 0, len(list))
	seen := make(map[string]int, len(list))

	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, &FieldError{Index: i, Prop: -1, Reason: fmt.Sprintf("component must be an object, got %s", kindOf(item))})
			continue
		}
		r := fieldReader{index: i, prop: -1}
		// Decode the name first so later problems can mention it.
		name := r.requiredString(obj, "name")
		r.name = name

		comp := Component{
			Name:        name,
			Description: r.requiredString(obj, "description"),
			Import:      r.requiredString(obj, "import"),
			Example:     r.requiredString(obj, "example"),
		}
		comp.Props = r.props(obj)

		if s, isString := obj["name"].(string); isString && s == "" {
			r.fail("name", "empty value for field")
		}
		if name != "" {
			if first, dup := seen[name]; dup {
				r.fail("", fmt.Sprintf("duplicate component name (first defined at components[%d])", first))
			} else {
				seen[name] = i
			}
		}

		for _, e := range r.errs {
			errs = append(errs, e)
		}
		components = append(components, comp)
	}

	return components, errs
}

// fieldReader extracts typed fields from one decoded object and collects
// problems with their location.
type fieldReader struct {
	index int
	prop  int
	name  string
	errs  []*FieldError
}

func (r *fieldReader) fail(field, reason string) {
	r.errs = append(r.errs, &FieldError{Index: r.index, Name: r.name, Prop: r.prop, Field: field, Reason: reason})
}

func (r *fieldReader) requiredString(obj map[string]any, field string) string {
	v, ok := obj[field]
	if !ok || v == nil {
		r.fail(field, "missing required field")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, fmt.Sprintf("expected string, got %s for field", kindOf(v)))
		return ""
	}
	return s
}

// optionalLiteral accepts strings and non-string scalars, returning their text.
func (r *fieldReader) optionalLiteral(obj map[string]any, field string) string {
	v, ok := obj[field]
	if !ok || v == nil {
		return ""
	}
	s, ok := literalText(v)
	if !ok {
		r.fail(field, fmt.Sprintf("expected scalar, got %s for field", kindOf(v)))
	}
	return s
}

func (r *fieldReader) optionalLiterals(obj map[string]any, field string) []string {
	v, ok := obj[field]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		r.fail(field, fmt.Sprintf("expected array, got %s for field", kindOf(v)))
		return nil
	}
	out := make([]string, 0, len(list))
	for j, item := range list {
		s, ok := literalText(item)
		if !ok {
			r.fail(fmt.Sprintf("%s[%d]", field, j), fmt.Sprintf("expected scalar, got %s for field", kindOf(item)))
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *fieldReader) props(obj map[string]any) []Prop {
	v, ok := obj["props"]
	if !ok || v == nil {
		r.fail("props", "missing required field")
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		r.fail("props", fmt.Sprintf("expected array, got %s for field", kindOf(v)))
		return nil
	}

	props := make([]Prop, 0, len(list))
	for j, item := range list {
		r.prop = j
		pobj, ok := item.(map[string]any)
		if !ok {
			r.fail("", fmt.Sprintf("property must be an object, got %s", kindOf(item)))
			continue
		}
		props = append(props, Prop{
			Name:        r.requiredString(pobj, "name"),
			Type:        r.requiredString(pobj, "type"),
			Default:     r.optionalLiteral(pobj, "default"),
			Options:     r.optionalLiterals(pobj, "options"),
			Description: r.requiredString(pobj, "description"),
		})
	}
	r.prop = -1
	return props
}

func literalText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case scalar:
		return t.text, true
	default:
		return "", false
	}
}
