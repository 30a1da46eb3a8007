package catalog

// Component represents a UI component in the catalog.
type Component struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Import      string `json:"import" yaml:"import"`
	Props       []Prop `json:"props" yaml:"props"`
	Example     string `json:"example" yaml:"example"`
}

// Prop represents a component property.
type Prop struct {
	Name        string   `json:"name" yaml:"name"`
	Type        string   `json:"type" yaml:"type"`
	Default     string   `json:"default,omitempty" yaml:"default,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Description string   `json:"description" yaml:"description"`
}

// Format identifies the serialization of a catalog source.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// LoadOptions controls post-processing applied by the loader.
type LoadOptions struct {
	// Sort orders components by name. Off by default: source order is kept.
	Sort bool
}
