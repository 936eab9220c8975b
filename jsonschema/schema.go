package jsonschema

// Schema is the JSON Schema fragment produced by rendering a schema node.
// Only the vocabulary the node model can emit is represented.
type Schema struct {
	Ref  string `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Object
	Properties map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string           `json:"required,omitempty" yaml:"required,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	// Top-level only, set by embedding.
	Definitions map[string]*Schema `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

// DefinitionsPrefix is the reference prefix of every registered definition.
const DefinitionsPrefix = "#/definitions/"

// RefTo returns the reference path of the named definition.
func RefTo(name string) string { return DefinitionsPrefix + name }

// Walk calls fn for s and every nested schema reachable through properties,
// items and definitions. It does not follow $ref values.
func Walk(s *Schema, fn func(*Schema)) {
	if s == nil {
		return
	}
	fn(s)
	for _, p := range s.Properties {
		Walk(p, fn)
	}
	Walk(s.Items, fn)
	for _, d := range s.Definitions {
		Walk(d, fn)
	}
}
