package view

import (
	"context"
	"regexp"
	"strings"

	viewspec "github.com/reoring/viewspec"
)

// Result is what a handler answers with. A zero Status means 200.
type Result struct {
	Status int
	Data   any
}

// Status returns a body-less result.
func Status(code int) Result { return Result{Status: code} }

// Reply returns a result carrying data.
func Reply(code int, data any) Result { return Result{Status: code, Data: data} }

// OK returns a 200 result carrying data.
func OK(data any) Result { return Result{Status: 200, Data: data} }

func (r Result) code() int {
	if r.Status == 0 {
		return 200
	}
	return r.Status
}

// Handler holds the business logic of a view. data is the validated
// payload, or nil when the view accepts none.
type Handler interface {
	Handle(ctx context.Context, data any) (Result, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, data any) (Result, error)

func (f HandlerFunc) Handle(ctx context.Context, data any) (Result, error) { return f(ctx, data) }

// Endpoint binds a named view to its contract and handler.
type Endpoint struct {
	name        string
	path        string
	description string
	spec        *Spec
	handler     Handler
}

// NewEndpoint validates the declaration of a view. The operation name is
// the declared name without a trailing "View"; the URL segment is the
// snake_case form of the declared name.
func NewEndpoint(name, description string, spec *Spec, h Handler) (*Endpoint, error) {
	if strings.TrimSpace(name) == "" {
		return nil, viewspec.Configf("view must be named")
	}
	if spec == nil {
		return nil, viewspec.Configf("%s must declare a spec", name)
	}
	if h == nil {
		return nil, viewspec.Configf("%s must declare a handler", name)
	}
	return &Endpoint{
		name:        TrimViewSuffix(name),
		path:        SnakeCase(name),
		description: description,
		spec:        spec,
		handler:     h,
	}, nil
}

// MustEndpoint is like NewEndpoint but panics on error.
func MustEndpoint(name, description string, spec *Spec, h Handler) *Endpoint {
	ep, err := NewEndpoint(name, description, spec, h)
	if err != nil {
		panic(err)
	}
	return ep
}

func (e *Endpoint) Name() string        { return e.name }
func (e *Endpoint) Path() string        { return e.path }
func (e *Endpoint) Description() string { return e.description }
func (e *Endpoint) Spec() *Spec         { return e.spec }
func (e *Endpoint) Handler() Handler    { return e.handler }

// TrimViewSuffix drops a trailing "view", matched case-insensitively.
func TrimViewSuffix(name string) string {
	if len(name) > 4 && strings.EqualFold(name[len(name)-4:], "view") {
		return name[:len(name)-4]
	}
	return name
}

var (
	snakeWord  = regexp.MustCompile(`(.)([A-Z][a-z]+)`)
	snakeUpper = regexp.MustCompile(`([a-z0-9])([A-Z])`)
)

// SnakeCase converts a CamelCase identifier to snake_case.
func SnakeCase(name string) string {
	s := snakeWord.ReplaceAllString(name, "${1}_${2}")
	return strings.ToLower(snakeUpper.ReplaceAllString(s, "${1}_${2}"))
}
