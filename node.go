package viewspec

import (
	"slices"
	"sort"

	json "github.com/goccy/go-json"

	js "github.com/reoring/viewspec/jsonschema"
)

// Kind tags the variant of a schema node.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindInteger
	KindString
	KindArray
	KindObject
	KindDefinition
	KindOptional
	kindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindDefinition:
		return "definition"
	case KindOptional:
		return "optional"
	default:
		return "empty"
	}
}

// Node is one element of the closed schema vocabulary. Nodes are immutable
// once constructed and are safe to share between goroutines, with one
// exception: a declared Definition receives its body later through
// Registry.Bind, under the registry lock. Read that body with Registry.Body.
type Node struct {
	kind   Kind
	elem   *Node   // array element, optional inner, definition body
	fields []Field // object properties in declaration order
	query  bool
	name   string // definition name
}

// Field is a named object property.
type Field struct {
	Name string
	Node *Node
}

// Prop declares an object property.
func Prop(name string, n *Node) Field { return Field{Name: name, Node: n} }

// Empty marks an endpoint that accepts or returns no body. Compare by identity.
// It is not a schema and must never be rendered.
var Empty = &Node{kind: kindEmpty}

func Null() *Node    { return &Node{kind: KindNull} }
func Boolean() *Node { return &Node{kind: KindBoolean} }
func Number() *Node  { return &Node{kind: KindNumber} }
func Integer() *Node { return &Node{kind: KindInteger} }
func String() *Node  { return &Node{kind: KindString} }

// Array describes a homogeneous JSON array.
func Array(elem *Node) *Node {
	mustSchema("array element", elem)
	return &Node{kind: KindArray, elem: elem}
}

// Optional marks an object property as not required. It is only meaningful
// as a direct child of Object or Query.
func Optional(n *Node) *Node {
	mustSchema("optional", n)
	return &Node{kind: KindOptional, elem: n}
}

// Object describes a JSON object. Unknown properties are always tolerated.
// Duplicate field names panic with a *ConfigurationError.
func Object(fields ...Field) *Node {
	return &Node{kind: KindObject, fields: checkFields("object", fields)}
}

// Query is an Object restricted to scalar and array-of-scalar children, the
// shape a URL query string can carry. Violations panic with a
// *ConfigurationError.
func Query(fields ...Field) *Node {
	fields = checkFields("query", fields)
	for _, f := range fields {
		if !queryLeaf(f.Node.Unwrap()) {
			panic(Configf("query field %q must be a scalar or an array of scalars, got %s", f.Name, f.Node.Unwrap().kind))
		}
	}
	return &Node{kind: KindObject, fields: fields, query: true}
}

func queryLeaf(n *Node) bool {
	if n.kind == KindArray {
		return n.elem.kind <= KindString
	}
	return n.kind <= KindString
}

func checkFields(what string, fields []Field) []Field {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			panic(Configf("%s declares field %q twice", what, f.Name))
		}
		seen[f.Name] = struct{}{}
		if f.Node != nil && f.Node.kind == KindOptional {
			continue
		}
		mustSchema(what+" field "+f.Name, f.Node)
	}
	return slices.Clone(fields)
}

func mustSchema(what string, n *Node) {
	switch {
	case n == nil:
		panic(Configf("%s: nil schema", what))
	case n == Empty || n.kind == kindEmpty:
		panic(Configf("%s: Empty is not a schema", what))
	case n.kind == KindOptional:
		panic(Configf("%s: Optional is only allowed as an object field", what))
	}
}

func (n *Node) Kind() Kind { return n.kind }

// Elem returns the array element or the optional inner node. It is nil for
// other kinds; a definition body is read with Registry.Body.
func (n *Node) Elem() *Node {
	if n.kind == KindDefinition {
		return nil
	}
	return n.elem
}

// Fields returns object properties in declaration order.
func (n *Node) Fields() []Field { return slices.Clone(n.fields) }

// IsQuery reports whether the node was built by Query.
func (n *Node) IsQuery() bool { return n.kind == KindObject && n.query }

// Name returns the definition name, or "" for other kinds.
func (n *Node) Name() string { return n.name }

// Ref returns the definition reference path, or "" for other kinds.
func (n *Node) Ref() string {
	if n.kind != KindDefinition {
		return ""
	}
	return js.RefTo(n.name)
}

// IsOptional reports whether n is an Optional wrapper.
func (n *Node) IsOptional() bool { return n.kind == KindOptional }

// Unwrap strips an Optional wrapper.
func (n *Node) Unwrap() *Node {
	if n.kind == KindOptional {
		return n.elem
	}
	return n
}

// Render projects the node into a JSON Schema fragment. Definitions render
// as references and are never inlined. Rendering Empty or a bare Optional
// panics.
func (n *Node) Render() *js.Schema {
	switch n.kind {
	case KindNull, KindBoolean, KindNumber, KindInteger, KindString:
		return &js.Schema{Type: n.kind.String()}
	case KindArray:
		return &js.Schema{Type: "array", Items: n.elem.Render()}
	case KindObject:
		return n.renderObject()
	case KindDefinition:
		return &js.Schema{Ref: js.RefTo(n.name)}
	case KindOptional:
		panic("viewspec: Optional renders only as an object field")
	default:
		panic("viewspec: Empty is a marker and has no JSON Schema")
	}
}

func (n *Node) renderObject() *js.Schema {
	s := &js.Schema{Type: "object"}
	if len(n.fields) == 0 {
		return s
	}
	fields := slices.Clone(n.fields)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	s.Properties = make(map[string]*js.Schema, len(fields))
	for _, f := range fields {
		child := f.Node
		if child.kind == KindOptional {
			child = child.elem
		} else {
			s.Required = append(s.Required, f.Name)
		}
		s.Properties[f.Name] = child.Render()
	}
	return s
}

// RenderJSON renders the node and marshals it. Map keys are emitted in
// sorted order, so the output is stable.
func (n *Node) RenderJSON() ([]byte, error) { return json.Marshal(n.Render()) }
