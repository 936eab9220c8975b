package view

import (
	"strconv"

	"github.com/reoring/viewspec/swagger"
)

// Operation describes the endpoint as a Swagger operation. Definition
// references are left in place; the document owning the operation is
// expected to carry them as top-level definitions.
func (e *Endpoint) Operation() *swagger.Operation {
	op := &swagger.Operation{
		OperationID: e.name,
		Description: e.description,
		Responses:   make(map[string]swagger.Response, len(e.spec.Responses)),
	}
	if p := e.spec.Payload; p != nil {
		if p.IsQuery() {
			for _, f := range p.Fields() {
				leaf := f.Node.Unwrap().Render()
				op.Parameters = append(op.Parameters, swagger.Parameter{
					In:       "query",
					Name:     f.Name,
					Required: !f.Node.IsOptional(),
					Type:     leaf.Type,
					Items:    leaf.Items,
				})
			}
		} else {
			op.Parameters = append(op.Parameters, swagger.Parameter{
				In:       "body",
				Name:     "payload",
				Required: true,
				Body:     p.Render(),
			})
		}
	}
	for _, r := range e.spec.Responses {
		resp := swagger.Response{Description: r.Description}
		if r.Schema != nil {
			resp.Schema = r.Schema.Render()
		}
		op.Responses[strconv.Itoa(r.Code)] = resp
	}
	return op
}
