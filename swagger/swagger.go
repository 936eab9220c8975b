package swagger

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	js "github.com/reoring/viewspec/jsonschema"
)

// Version is the only Swagger version this package emits.
const Version = "2.0"

// MIMEJSON is the sole media type consumed and produced by declared views.
const MIMEJSON = "application/json"

// Document is a Swagger 2.0 description of a set of views.
type Document struct {
	Swagger     string                `json:"swagger" yaml:"swagger"`
	Info        Info                  `json:"info" yaml:"info"`
	BasePath    string                `json:"basePath" yaml:"basePath"`
	Schemes     []string              `json:"schemes" yaml:"schemes"`
	Consumes    []string              `json:"consumes" yaml:"consumes"`
	Produces    []string              `json:"produces" yaml:"produces"`
	Paths       map[string]PathItem   `json:"paths" yaml:"paths"`
	Definitions map[string]*js.Schema `json:"definitions,omitempty" yaml:"definitions,omitempty"`
}

type Info struct {
	Title   string `json:"title" yaml:"title"`
	Version string `json:"version" yaml:"version"`
}

// PathItem maps a lower-case HTTP method to its operation.
type PathItem map[string]*Operation

type Operation struct {
	OperationID string              `json:"operationId" yaml:"operationId"`
	Description string              `json:"description" yaml:"description"`
	Parameters  []Parameter         `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Responses   map[string]Response `json:"responses" yaml:"responses"`
}

// Parameter is either a body parameter carrying a schema, or a query
// parameter described by its type and, for arrays, its items.
type Parameter struct {
	In       string     `json:"in" yaml:"in"`
	Name     string     `json:"name" yaml:"name"`
	Required bool       `json:"required" yaml:"required"`
	Type     string     `json:"type,omitempty" yaml:"type,omitempty"`
	Items    *js.Schema `json:"items,omitempty" yaml:"items,omitempty"`
	Body     *js.Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

type Response struct {
	Description string     `json:"description" yaml:"description"`
	Schema      *js.Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// New returns an empty document with the fixed JSON media types.
func New(basePath string, schemes ...string) *Document {
	if len(schemes) == 0 {
		schemes = []string{"http"}
	}
	return &Document{
		Swagger:  Version,
		BasePath: basePath,
		Schemes:  schemes,
		Consumes: []string{MIMEJSON},
		Produces: []string{MIMEJSON},
		Paths:    map[string]PathItem{},
	}
}

var validIn = map[string]bool{"query": true, "body": true, "path": true, "header": true, "formData": true}

// Validate performs a structural self-check of the document: version,
// path keys, operations, responses, parameters and that every $ref resolves
// to a top-level definition.
func Validate(doc *Document) error {
	if doc == nil {
		return errors.New("swagger: nil document")
	}
	var errs []error
	if doc.Swagger != Version {
		errs = append(errs, fmt.Errorf("swagger: version %q, want %q", doc.Swagger, Version))
	}
	paths := make([]string, 0, len(doc.Paths))
	for p := range doc.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Errorf("swagger: path %q must start with /", p))
		}
		for method, op := range doc.Paths[p] {
			errs = append(errs, validateOperation(p+" "+method, op)...)
		}
	}
	var schemas []*js.Schema
	for _, def := range doc.Definitions {
		schemas = append(schemas, def)
	}
	for _, item := range doc.Paths {
		for _, op := range item {
			if op == nil {
				continue
			}
			for _, prm := range op.Parameters {
				schemas = append(schemas, prm.Body, prm.Items)
			}
			for _, r := range op.Responses {
				schemas = append(schemas, r.Schema)
			}
		}
	}
	for _, s := range schemas {
		js.Walk(s, func(n *js.Schema) {
			if n.Ref == "" {
				return
			}
			name, ok := strings.CutPrefix(n.Ref, js.DefinitionsPrefix)
			if _, found := doc.Definitions[name]; !ok || !found {
				errs = append(errs, fmt.Errorf("swagger: unresolved reference %q", n.Ref))
			}
		})
	}
	return errors.Join(errs...)
}

func validateOperation(where string, op *Operation) []error {
	if op == nil {
		return []error{fmt.Errorf("swagger: %s: nil operation", where)}
	}
	var errs []error
	if op.OperationID == "" {
		errs = append(errs, fmt.Errorf("swagger: %s: missing operationId", where))
	}
	if len(op.Responses) == 0 {
		errs = append(errs, fmt.Errorf("swagger: %s: no responses", where))
	}
	for code := range op.Responses {
		if n, err := strconv.Atoi(code); code != "default" && (err != nil || n < 100 || n > 599) {
			errs = append(errs, fmt.Errorf("swagger: %s: bad response code %q", where, code))
		}
	}
	bodies := 0
	for _, p := range op.Parameters {
		if !validIn[p.In] {
			errs = append(errs, fmt.Errorf("swagger: %s: parameter %q has bad location %q", where, p.Name, p.In))
		}
		if p.In == "body" {
			bodies++
			if p.Body == nil {
				errs = append(errs, fmt.Errorf("swagger: %s: body parameter without schema", where))
			}
		} else if p.Type == "" {
			errs = append(errs, fmt.Errorf("swagger: %s: parameter %q without type", where, p.Name))
		}
	}
	if bodies > 1 {
		errs = append(errs, fmt.Errorf("swagger: %s: more than one body parameter", where))
	}
	return errs
}

// MarshalJSON renders the document as indented JSON.
func MarshalJSON(doc *Document) ([]byte, error) { return json.MarshalIndent(doc, "", "  ") }

// MarshalYAML renders the document as YAML.
func MarshalYAML(doc *Document) ([]byte, error) { return yaml.Marshal(doc) }
