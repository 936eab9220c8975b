// Package viewspec provides the schema engine behind declarative HTTP view
// contracts:
//
//   - A closed schema vocabulary (Null, Boolean, Number, Integer, String,
//     Array, Object, Query, Optional) rendered to JSON Schema
//   - A Registry of named Definitions, rendered as $ref and embedded on demand
//   - A body Validator that reports every violation as {path, error}
//   - A query-string coercion engine that turns url.Values into typed values
//     and reports the first failing field
//
// Design policy:
//   - Keep the schema engine in the root package; put the validator program
//     and the JSON token decoder under internal/.
//   - Endpoint declaration and dispatch live under view/, routing and the
//     Swagger 2.0 export under router/ and swagger/, the CLI under internal/cli.
//
// Typical usage:
//
//	reg := viewspec.NewRegistry()
//	nested := reg.MustDefine("Nested", viewspec.Object(viewspec.Prop("eggs", viewspec.String())))
//	model := viewspec.Object(
//		viewspec.Prop("foo", viewspec.String()),
//		viewspec.Prop("spam", nested),
//	)
//	v, err := reg.CheckAndReturn(model, payload)
//	q, err := viewspec.Query(viewspec.Prop("page", viewspec.Optional(viewspec.Integer()))).CoerceQuery(r.URL.Query())
package viewspec
