package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/viewspec/i18n"
	js "github.com/reoring/viewspec/jsonschema"
)

// Violation is one failed keyword at a path inside the instance.
type Violation struct {
	Path    []any
	Message string
}

// Program is a compiled, reusable validator for one embedded document.
// It is immutable and safe for concurrent use.
type Program struct {
	root *node
}

type prop struct {
	name string
	node *node
}

type node struct {
	ref      *node
	typ      string
	props    []prop
	required []string
	items    *node
}

// Compile turns an embedded document into a Program. Every $ref must point
// into the document's own definitions; references may be cyclic.
func Compile(doc *js.Schema) (*Program, error) {
	c := &compiler{defs: make(map[string]*node, len(doc.Definitions))}
	for name := range doc.Definitions {
		c.defs[name] = &node{}
	}
	for name, body := range doc.Definitions {
		if err := c.fill(c.defs[name], body); err != nil {
			return nil, fmt.Errorf("definition %q: %w", name, err)
		}
	}
	for name, n := range c.defs {
		seen := map[*node]bool{}
		for ; n.ref != nil; n = n.ref {
			if seen[n] {
				return nil, fmt.Errorf("definition %q only refers to itself", name)
			}
			seen[n] = true
		}
	}
	root := &node{}
	if err := c.fill(root, doc); err != nil {
		return nil, err
	}
	return &Program{root: root}, nil
}

type compiler struct {
	defs map[string]*node
}

func (c *compiler) fill(n *node, s *js.Schema) error {
	if s == nil {
		return nil
	}
	if s.Ref != "" {
		name, ok := strings.CutPrefix(s.Ref, js.DefinitionsPrefix)
		target := c.defs[name]
		if !ok || target == nil {
			return fmt.Errorf("unresolvable reference %q", s.Ref)
		}
		n.ref = target
		return nil
	}
	n.typ = s.Type
	n.required = s.Required
	if s.Items != nil {
		n.items = &node{}
		if err := c.fill(n.items, s.Items); err != nil {
			return err
		}
	}
	if len(s.Properties) > 0 {
		names := make([]string, 0, len(s.Properties))
		for k := range s.Properties {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			child := &node{}
			if err := c.fill(child, s.Properties[k]); err != nil {
				return err
			}
			n.props = append(n.props, prop{name: k, node: child})
		}
	}
	return nil
}

// Validate reports every violation of instance, ordered by message text and
// then by path so repeated runs agree.
func (p *Program) Validate(instance any) []Violation {
	var out []Violation
	p.root.validate(instance, nil, &out)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Message != out[j].Message {
			return out[i].Message < out[j].Message
		}
		return fmt.Sprint(out[i].Path) < fmt.Sprint(out[j].Path)
	})
	return out
}

func (n *node) validate(v any, path []any, out *[]Violation) {
	for n.ref != nil {
		n = n.ref
	}
	if n.typ != "" && !IsType(v, n.typ) {
		*out = append(*out, Violation{
			Path: path,
			Message: i18n.T(i18n.CodeInvalidType, map[string]string{
				"value":    Repr(v),
				"expected": QuoteString(n.typ),
			}),
		})
	}
	switch t := v.(type) {
	case map[string]any:
		for _, p := range n.props {
			if child, ok := t[p.name]; ok {
				p.node.validate(child, appendPath(path, p.name), out)
			}
		}
		for _, name := range n.required {
			if _, ok := t[name]; !ok {
				*out = append(*out, Violation{
					Path:    path,
					Message: i18n.T(i18n.CodeRequired, map[string]string{"property": QuoteString(name)}),
				})
			}
		}
	case []any:
		if n.items != nil {
			for i, e := range t {
				n.items.validate(e, appendPath(path, i), out)
			}
		}
	}
}

func appendPath(path []any, seg any) []any {
	out := make([]any, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

// IsType reports whether v is an instance of the JSON type name.
func IsType(v any, typ string) bool {
	switch typ {
	case "null":
		return v == nil
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "string":
		_, ok := v.(string)
		return ok
	case "array":
		_, ok := v.([]any)
		return ok
	case "object":
		_, ok := v.(map[string]any)
		return ok
	case "number":
		return isNumber(v)
	case "integer":
		return isInteger(v)
	}
	return true
}

func isNumber(v any) bool {
	switch v.(type) {
	case json.Number, float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isInteger(v any) bool {
	switch t := v.(type) {
	case json.Number:
		return !strings.ContainsAny(string(t), ".eE")
	case float64:
		return t == math.Trunc(t) && !math.IsInf(t, 0)
	case float32:
		return float64(t) == math.Trunc(float64(t))
	}
	return isNumber(v)
}
