package swagger_test

import (
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	js "github.com/reoring/viewspec/jsonschema"
	"github.com/reoring/viewspec/swagger"
)

func sample() *swagger.Document {
	doc := swagger.New("/api")
	doc.Info = swagger.Info{Title: "t", Version: "1"}
	doc.Paths["/echo/"] = swagger.PathItem{"post": {
		OperationID: "Echo",
		Parameters: []swagger.Parameter{
			{In: "body", Name: "payload", Required: true, Body: &js.Schema{Ref: js.RefTo("Thing")}},
		},
		Responses: map[string]swagger.Response{"200": {Description: "success", Schema: &js.Schema{Type: "object"}}},
	}}
	doc.Paths["/list/"] = swagger.PathItem{"get": {
		OperationID: "List",
		Parameters: []swagger.Parameter{
			{In: "query", Name: "n", Required: true, Type: "integer"},
			{In: "query", Name: "tags", Type: "array", Items: &js.Schema{Type: "string"}},
		},
		Responses: map[string]swagger.Response{"200": {Description: "success"}},
	}}
	doc.Definitions = map[string]*js.Schema{"Thing": {Type: "string"}}
	return doc
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, swagger.Validate(sample()))
}

func TestValidate_Failures(t *testing.T) {
	cases := map[string]func(*swagger.Document){
		"version":       func(d *swagger.Document) { d.Swagger = "3.0" },
		"path":          func(d *swagger.Document) { d.Paths["nope"] = d.Paths["/list/"] },
		"no_responses":  func(d *swagger.Document) { d.Paths["/list/"]["get"].Responses = nil },
		"bad_code":      func(d *swagger.Document) { d.Paths["/list/"]["get"].Responses["2xx"] = swagger.Response{} },
		"bad_in":        func(d *swagger.Document) { d.Paths["/list/"]["get"].Parameters[0].In = "cookie" },
		"untyped_query": func(d *swagger.Document) { d.Paths["/list/"]["get"].Parameters[0].Type = "" },
		"dangling_ref":  func(d *swagger.Document) { delete(d.Definitions, "Thing") },
		"body_schema":   func(d *swagger.Document) { d.Paths["/echo/"]["post"].Parameters[0].Body = nil },
		"no_op_id":      func(d *swagger.Document) { d.Paths["/echo/"]["post"].OperationID = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			doc := sample()
			mutate(doc)
			assert.Error(t, swagger.Validate(doc))
		})
	}
	assert.Error(t, swagger.Validate(nil))
}

func TestMarshalJSON_QueryParameters(t *testing.T) {
	out, err := swagger.MarshalJSON(sample())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, "2.0", got["swagger"])
	assert.Equal(t, "/api", got["basePath"])

	list := got["paths"].(map[string]any)["/list/"].(map[string]any)["get"].(map[string]any)
	param := list["parameters"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"in": "query", "name": "n", "required": true, "type": "integer"}, param)
	tags := list["parameters"].([]any)[1].(map[string]any)
	assert.Equal(t, map[string]any{"in": "query", "name": "tags", "required": false, "type": "array", "items": map[string]any{"type": "string"}}, tags)

	echo := got["paths"].(map[string]any)["/echo/"].(map[string]any)["post"].(map[string]any)
	body := echo["parameters"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"$ref": "#/definitions/Thing"}, body["schema"])
}

func TestMarshalYAML(t *testing.T) {
	out, err := swagger.MarshalYAML(sample())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "swagger: \"2.0\"\n"), string(out))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out, &got))
	list := got["paths"].(map[string]any)["/list/"].(map[string]any)["get"].(map[string]any)
	param := list["parameters"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"in": "query", "name": "n", "required": true, "type": "integer"}, param)
	tags := list["parameters"].([]any)[1].(map[string]any)
	assert.Equal(t, map[string]any{"type": "string"}, tags["items"])

	echo := got["paths"].(map[string]any)["/echo/"].(map[string]any)["post"].(map[string]any)
	body := echo["parameters"].([]any)[0].(map[string]any)
	assert.Equal(t, true, body["required"])
	assert.Equal(t, map[string]any{"$ref": "#/definitions/Thing"}, body["schema"])
}
