// Package demo declares a small set of sample views exercising every
// dispatch rule: empty payloads, query coercion, response contracts,
// undeclared statuses and definition references.
package demo

import (
	"context"

	vs "github.com/reoring/viewspec"
	"github.com/reoring/viewspec/router"
	"github.com/reoring/viewspec/view"
)

// New builds a router with the sample views registered against a fresh
// registry.
func New(opts ...router.Option) (*router.Router, error) {
	reg := vs.NewRegistry()
	eps, err := Endpoints(reg)
	if err != nil {
		return nil, err
	}
	r := router.New(reg, opts...)
	if err := r.Register(eps...); err != nil {
		return nil, err
	}
	return r, nil
}

// Endpoints declares the sample views, registering their definitions in reg.
func Endpoints(reg *vs.Registry) ([]*view.Endpoint, error) {
	nested, err := reg.Define("Nested", vs.Object(vs.Prop("eggs", vs.String())))
	if err != nil {
		return nil, err
	}
	model := vs.Object(
		vs.Prop("foo", vs.String()),
		vs.Prop("bar", vs.Number()),
		vs.Prop("spam", nested),
	)

	type decl struct {
		name, doc string
		spec      func() (*view.Spec, error)
		h         view.Handler
	}
	decls := []decl{
		{"GetMethod", "sample view doc", func() (*view.Spec, error) {
			return view.NewSpec(view.GET, vs.Empty, view.NewResponse(204, view.WithDescription("okay")))
		}, status(204)},
		{"PostMethod", "", func() (*view.Spec, error) {
			return view.NewSpec(view.POST, vs.Empty, view.NewResponse(204))
		}, status(204)},
		{"InContractView", "", func() (*view.Spec, error) {
			return view.NewSpec(view.GET, vs.Query(vs.Prop("foo", vs.Number())), view.NewResponse(204))
		}, status(204)},
		{"OutContractView", "", func() (*view.Spec, error) {
			return view.NewSpec(view.GET, vs.Query(vs.Prop("foo", vs.String())),
				view.NewResponse(200, view.WithSchema(vs.Object(vs.Prop("foo", vs.String())))))
		}, echo{}},
		{"FailingOutContractView", "", func() (*view.Spec, error) {
			return view.NewSpec(view.GET, vs.Query(vs.Prop("result", vs.Boolean())),
				view.NewResponse(200, view.WithSchema(vs.Object(vs.Prop("foo", vs.String())))))
		}, view.HandlerFunc(failingOut)},
		{"ReturnStatusView", "", func() (*view.Spec, error) {
			return view.NewSpec(view.GET, vs.Query(vs.Prop("result", vs.String())),
				view.NewResponse(204),
				view.NewResponse(200, view.WithSchema(vs.Object(vs.Prop("result", vs.String())))))
		}, view.HandlerFunc(returnStatus)},
		{"EchoView", "", func() (*view.Spec, error) {
			return view.NewSpec(view.POST, vs.Object(), view.NewResponse(200, view.WithSchema(vs.Object())))
		}, echo{}},
		{"SchemaView", "", func() (*view.Spec, error) {
			return view.NewSpec(view.POST, model, view.NewResponse(200, view.WithSchema(vs.Array(model))))
		}, view.HandlerFunc(func(_ context.Context, data any) (view.Result, error) {
			return view.OK([]any{data}), nil
		})},
		{"UnknownResponseView", "", func() (*view.Spec, error) {
			return view.NewSpec(view.GET, vs.Query(vs.Prop("status", vs.Number())), view.NewResponse(204))
		}, view.HandlerFunc(unknownResponse)},
		{"ForbiddenView", "", func() (*view.Spec, error) {
			return view.NewSpec(view.GET, vs.Empty, view.NewResponse(403))
		}, status(403)},
	}

	out := make([]*view.Endpoint, 0, len(decls))
	for _, d := range decls {
		spec, err := d.spec()
		if err != nil {
			return nil, err
		}
		ep, err := view.NewEndpoint(d.name, d.doc, spec, d.h)
		if err != nil {
			return nil, err
		}
		out = append(out, ep)
	}
	return out, nil
}

// status answers with a fixed, body-less status.
type status int

func (s status) Handle(context.Context, any) (view.Result, error) { return view.Status(int(s)), nil }

// echo answers 200 with the validated payload.
type echo struct{}

func (echo) Handle(_ context.Context, data any) (view.Result, error) { return view.OK(data), nil }

func failingOut(_ context.Context, data any) (view.Result, error) {
	if data.(map[string]any)["result"] == true {
		return view.OK(map[string]any{"foo": "1"}), nil
	}
	return view.OK(nil), nil
}

func returnStatus(_ context.Context, data any) (view.Result, error) {
	switch data.(map[string]any)["result"] {
	case "int":
		return view.Status(204), nil
	case "fail":
		return view.Status(201), nil
	}
	return view.OK(data), nil
}

func unknownResponse(_ context.Context, data any) (view.Result, error) {
	code, _ := data.(map[string]any)["status"].(float64)
	return view.Reply(int(code), data), nil
}
