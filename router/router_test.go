package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vs "github.com/reoring/viewspec"
	"github.com/reoring/viewspec/router"
	"github.com/reoring/viewspec/swagger"
	"github.com/reoring/viewspec/view"
)

func ok(context.Context, any) (view.Result, error) { return view.OK(map[string]any{"ok": true}), nil }

func build(t *testing.T) (*vs.Registry, *router.Router) {
	t.Helper()
	reg := vs.NewRegistry()
	nested := reg.MustDefine("Nested", vs.Object(vs.Prop("value", vs.Number())))
	reg.MustDefine("Unused", vs.String())
	out := vs.Object(vs.Prop("ok", vs.Boolean()))

	r := router.New(reg, router.WithBasePath("/api/"), router.WithTitle("Demo"), router.WithVersion("2.1"))
	r.MustRegister(
		view.MustEndpoint("GetMethodView", "reads", view.MustSpec(view.GET,
			vs.Query(vs.Prop("n", vs.Integer()), vs.Prop("s", vs.Optional(vs.String()))),
			view.NewResponse(200, view.WithSchema(out)),
		), view.HandlerFunc(ok)),
		view.MustEndpoint("SchemaView", "", view.MustSpec(view.POST,
			vs.Object(vs.Prop("nested", nested)),
			view.NewResponse(200, view.WithSchema(out)), view.NewResponse(403),
		), view.HandlerFunc(ok)),
	)
	return reg, r
}

func TestRegister_DuplicatePath(t *testing.T) {
	_, r := build(t)
	dup := view.MustEndpoint("SchemaView", "", view.MustSpec(view.POST, nil, view.NewResponse(200)), view.HandlerFunc(ok))
	err := r.Register(dup)
	require.Error(t, err)
	assert.True(t, vs.IsConfigurationError(err))
	assert.Len(t, r.Endpoints(), 2)
	assert.Equal(t, "GetMethod", r.Endpoints()[0].Name())
}

func TestHandler_Mounts(t *testing.T) {
	_, r := build(t)
	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/get_method_view/?n=4")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/schema_view/", "application/json", strings.NewReader(`{"nested":{"value":1}}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/schema_view/", "application/json", strings.NewReader(`{"nested":{}}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/missing/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, "/api/schema_view/", r.URL(r.Endpoints()[1]))
}

func TestSwagger(t *testing.T) {
	_, r := build(t)
	doc := r.Swagger()
	require.NoError(t, swagger.Validate(doc))

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/api", doc.BasePath)
	assert.Equal(t, swagger.Info{Title: "Demo", Version: "2.1"}, doc.Info)
	assert.Equal(t, []string{"application/json"}, doc.Consumes)
	assert.Equal(t, []string{"application/json"}, doc.Produces)
	assert.ElementsMatch(t, []string{"/get_method_view/", "/schema_view/"}, keys(doc.Paths))

	get := doc.Paths["/get_method_view/"]["get"]
	require.NotNil(t, get)
	assert.Equal(t, "GetMethod", get.OperationID)
	require.Len(t, get.Parameters, 2)
	assert.Equal(t, "n", get.Parameters[0].Name)
	assert.Equal(t, "integer", get.Parameters[0].Type)

	post := doc.Paths["/schema_view/"]["post"]
	require.NotNil(t, post)
	require.Len(t, post.Parameters, 1)
	assert.Equal(t, "#/definitions/Nested", post.Parameters[0].Body.Properties["nested"].Ref)
	assert.Equal(t, "failure", post.Responses["403"].Description)

	require.Contains(t, doc.Definitions, "Nested")
	require.Contains(t, doc.Definitions, "Unused")
	assert.Equal(t, "string", doc.Definitions["Unused"].Type)
}

func TestSwagger_RootBasePath(t *testing.T) {
	r := router.New(vs.NewRegistry(), router.WithBasePath("/"))
	doc := r.Swagger()
	assert.Equal(t, "/", doc.BasePath)
	assert.Equal(t, "viewspec", doc.Info.Title)
	require.NoError(t, swagger.Validate(doc))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
