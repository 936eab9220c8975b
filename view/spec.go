// Package view declares HTTP views by contract and dispatches requests
// through their payload and response schemas.
package view

import (
	"slices"

	viewspec "github.com/reoring/viewspec"
)

// Method is the single HTTP method a view accepts.
type Method string

const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	PATCH  Method = "PATCH"
	DELETE Method = "DELETE"
)

func (m Method) valid() bool {
	switch m {
	case GET, POST, PUT, PATCH, DELETE:
		return true
	}
	return false
}

// Response declares one status a view may answer with. A nil Schema means
// the response carries no body.
type Response struct {
	Code        int
	Description string
	Schema      *viewspec.Node
}

// ResponseOption customizes a Response built by NewResponse.
type ResponseOption func(*Response)

// WithDescription overrides the default description.
func WithDescription(d string) ResponseOption {
	return func(r *Response) { r.Description = d }
}

// WithSchema declares the shape of the response body.
func WithSchema(n *viewspec.Node) ResponseOption {
	return func(r *Response) { r.Schema = n }
}

// NewResponse returns a response declaration. The description defaults to
// "success" for 2xx codes and "failure" otherwise.
func NewResponse(code int, opts ...ResponseOption) Response {
	r := Response{Code: code}
	for _, o := range opts {
		o(&r)
	}
	if r.Schema == viewspec.Empty {
		r.Schema = nil
	}
	if r.Description == "" {
		if code >= 200 && code < 300 {
			r.Description = "success"
		} else {
			r.Description = "failure"
		}
	}
	return r
}

// Spec is the contract of a view: its method, the payload it accepts and
// the responses it may produce.
type Spec struct {
	Method    Method
	Payload   *viewspec.Node
	Responses []Response
}

// NewSpec validates and returns a view contract. A nil or Empty payload
// means the view accepts no data. GET views may only declare Query payloads.
func NewSpec(method Method, payload *viewspec.Node, responses ...Response) (*Spec, error) {
	if !method.valid() {
		return nil, viewspec.Configf("unsupported method %q", method)
	}
	if payload == viewspec.Empty {
		payload = nil
	}
	if payload != nil {
		if payload.IsOptional() {
			return nil, viewspec.Configf("payload cannot be optional")
		}
		if method == GET && !payload.IsQuery() {
			return nil, viewspec.Configf("GET payload must be a query schema, got %s", payload.Kind())
		}
	}
	if len(responses) == 0 {
		return nil, viewspec.Configf("spec declares no responses")
	}
	seen := make(map[int]bool, len(responses))
	for _, r := range responses {
		if r.Code < 100 || r.Code > 599 {
			return nil, viewspec.Configf("invalid response code %d", r.Code)
		}
		if seen[r.Code] {
			return nil, viewspec.Configf("duplicate response code %d", r.Code)
		}
		seen[r.Code] = true
		if r.Schema != nil && r.Schema.IsOptional() {
			return nil, viewspec.Configf("response %d schema cannot be optional", r.Code)
		}
	}
	return &Spec{Method: method, Payload: payload, Responses: slices.Clone(responses)}, nil
}

// MustSpec is like NewSpec but panics on error.
func MustSpec(method Method, payload *viewspec.Node, responses ...Response) *Spec {
	s, err := NewSpec(method, payload, responses...)
	if err != nil {
		panic(err)
	}
	return s
}

// Response looks up the declaration for a status code.
func (s *Spec) Response(code int) (Response, bool) {
	for _, r := range s.Responses {
		if r.Code == code {
			return r, true
		}
	}
	return Response{}, false
}

// AcceptsData reports whether the view declares a payload schema.
func (s *Spec) AcceptsData() bool { return s.Payload != nil }
