package view_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vs "github.com/reoring/viewspec"
	"github.com/reoring/viewspec/view"
)

func noop(context.Context, any) (view.Result, error) { return view.Status(200), nil }

func TestNewResponse_DefaultDescription(t *testing.T) {
	assert.Equal(t, "success", view.NewResponse(201).Description)
	assert.Equal(t, "failure", view.NewResponse(403).Description)
	assert.Equal(t, "gone", view.NewResponse(410, view.WithDescription("gone")).Description)
	assert.Nil(t, view.NewResponse(200, view.WithSchema(vs.Empty)).Schema)
}

func TestNewSpec_Rejects(t *testing.T) {
	cases := map[string]func() (*view.Spec, error){
		"get_object_payload": func() (*view.Spec, error) {
			return view.NewSpec(view.GET, vs.Object(vs.Prop("a", vs.String())), view.NewResponse(200))
		},
		"optional_payload": func() (*view.Spec, error) {
			return view.NewSpec(view.POST, vs.Optional(vs.String()), view.NewResponse(200))
		},
		"duplicate_code": func() (*view.Spec, error) {
			return view.NewSpec(view.POST, nil, view.NewResponse(200), view.NewResponse(200))
		},
		"no_responses": func() (*view.Spec, error) {
			return view.NewSpec(view.POST, nil)
		},
		"bad_code": func() (*view.Spec, error) {
			return view.NewSpec(view.POST, nil, view.NewResponse(42))
		},
		"bad_method": func() (*view.Spec, error) {
			return view.NewSpec(view.Method("TRACE"), nil, view.NewResponse(200))
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := build()
			require.Error(t, err)
			assert.True(t, vs.IsConfigurationError(err), "%v", err)
		})
	}
}

func TestNewSpec_Accepts(t *testing.T) {
	s, err := view.NewSpec(view.GET, vs.Query(vs.Prop("n", vs.Integer())), view.NewResponse(200))
	require.NoError(t, err)
	assert.True(t, s.AcceptsData())

	s, err = view.NewSpec(view.POST, vs.Empty, view.NewResponse(204))
	require.NoError(t, err)
	assert.False(t, s.AcceptsData())
	_, ok := s.Response(204)
	assert.True(t, ok)
	_, ok = s.Response(200)
	assert.False(t, ok)
}

func TestNewEndpoint(t *testing.T) {
	spec := view.MustSpec(view.POST, nil, view.NewResponse(200))
	ep, err := view.NewEndpoint("InContractView", "checks input", spec, view.HandlerFunc(noop))
	require.NoError(t, err)
	assert.Equal(t, "InContract", ep.Name())
	assert.Equal(t, "in_contract_view", ep.Path())
	assert.Equal(t, "checks input", ep.Description())

	_, err = view.NewEndpoint("NoSpec", "", nil, view.HandlerFunc(noop))
	assert.True(t, vs.IsConfigurationError(err))
	_, err = view.NewEndpoint("NoHandler", "", spec, nil)
	assert.True(t, vs.IsConfigurationError(err))
	_, err = view.NewEndpoint(" ", "", spec, view.HandlerFunc(noop))
	assert.True(t, vs.IsConfigurationError(err))
}

func TestSnakeCase(t *testing.T) {
	for in, want := range map[string]string{
		"GetMethodView": "get_method_view",
		"HTTPServer":    "http_server",
		"Echo":          "echo",
		"returnStatus2": "return_status2",
		"already_snake": "already_snake",
	} {
		assert.Equal(t, want, view.SnakeCase(in), in)
	}
	assert.Equal(t, "Schema", view.TrimViewSuffix("SchemaView"))
	assert.Equal(t, "Schema", view.TrimViewSuffix("Schemaview"))
	assert.Equal(t, "View", view.TrimViewSuffix("View"))
}

func TestOperation(t *testing.T) {
	get := view.MustEndpoint("ListView", "lists", view.MustSpec(view.GET,
		vs.Query(vs.Prop("limit", vs.Integer()), vs.Prop("tags", vs.Optional(vs.Array(vs.String())))),
		view.NewResponse(200, view.WithSchema(vs.Array(vs.String()))),
	), view.HandlerFunc(noop))
	op := get.Operation()
	assert.Equal(t, "List", op.OperationID)
	assert.Equal(t, "lists", op.Description)
	require.Len(t, op.Parameters, 2)
	assert.Equal(t, "limit", op.Parameters[0].Name)
	assert.Equal(t, "query", op.Parameters[0].In)
	assert.True(t, op.Parameters[0].Required)
	assert.Equal(t, "integer", op.Parameters[0].Type)
	assert.False(t, op.Parameters[1].Required)
	assert.Equal(t, "array", op.Parameters[1].Type)
	assert.Equal(t, "string", op.Parameters[1].Items.Type)
	assert.Equal(t, "array", op.Responses["200"].Schema.Type)

	post := view.MustEndpoint("Create", "", view.MustSpec(view.POST,
		vs.Object(vs.Prop("name", vs.String())),
		view.NewResponse(201), view.NewResponse(409),
	), view.HandlerFunc(noop))
	op = post.Operation()
	require.Len(t, op.Parameters, 1)
	assert.Equal(t, "body", op.Parameters[0].In)
	require.NotNil(t, op.Parameters[0].Body)
	assert.Equal(t, []string{"name"}, op.Parameters[0].Body.Required)
	assert.Equal(t, "success", op.Responses["201"].Description)
	assert.Equal(t, "failure", op.Responses["409"].Description)
	assert.Nil(t, op.Responses["409"].Schema)
}
