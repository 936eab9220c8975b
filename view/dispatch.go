package view

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/untillpro/goutils/logger"

	viewspec "github.com/reoring/viewspec"
	"github.com/reoring/viewspec/middleware"
)

// Options bounds what the dispatcher reads from a request.
type Options struct {
	// MaxBodyBytes limits request bodies. Zero uses the registry limit.
	MaxBodyBytes int64
	// MaxDepth limits JSON nesting. Zero uses the registry limit.
	MaxDepth int
}

// Dispatcher turns endpoints into http.Handlers enforcing their contracts.
type Dispatcher struct {
	reg *viewspec.Registry
	opt viewspec.Options
}

// NewDispatcher returns a dispatcher validating against reg.
func NewDispatcher(reg *viewspec.Registry, opts ...Options) *Dispatcher {
	o := reg.Options()
	for _, x := range opts {
		if x.MaxBodyBytes > 0 {
			o.MaxBytes = x.MaxBodyBytes
		}
		if x.MaxDepth > 0 {
			o.MaxDepth = x.MaxDepth
		}
	}
	return &Dispatcher{reg: reg, opt: o}
}

// Registry returns the registry payloads are validated against.
func (d *Dispatcher) Registry() *viewspec.Registry { return d.reg }

// Handler returns the http.Handler serving ep.
func (d *Dispatcher) Handler(ep *Endpoint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { d.Serve(ep, w, r) })
}

// Serve runs one request through ep's contract:
// method check, payload extraction, payload validation, the handler and
// finally response validation. Client mistakes answer 400; contract
// breaches on the server side answer 500 and are logged.
func (d *Dispatcher) Serve(ep *Endpoint, w http.ResponseWriter, r *http.Request) {
	spec := ep.spec
	if Method(r.Method) != spec.Method {
		w.Header().Set("Allow", string(spec.Method))
		d.status(w, r, http.StatusMethodNotAllowed)
		return
	}

	data, err := d.payload(spec, w, r)
	if err != nil {
		if logger.IsVerbose() {
			logger.Verbose(ep.name, "rejected payload:", err)
		}
		d.status(w, r, http.StatusBadRequest)
		return
	}

	if !spec.AcceptsData() {
		if truthy(data) {
			d.status(w, r, http.StatusBadRequest)
			return
		}
		data = nil
	} else {
		data, err = d.check(spec, data)
		if err != nil {
			if de, ok := viewspec.AsDataError(err); ok {
				d.writeJSON(w, r, http.StatusBadRequest, middleware.ErrorPayload(de))
				return
			}
			logger.Error(ep.name, "payload check failed:", err)
			d.status(w, r, http.StatusInternalServerError)
			return
		}
	}

	res, err := ep.handler.Handle(middleware.ContextWithPayload(r.Context(), data), data)
	if err != nil {
		logger.Error(ep.name, "handler failed:", err)
		d.status(w, r, http.StatusInternalServerError)
		return
	}
	d.respond(ep, w, r, res)
}

// payload extracts the raw request data. GET views read the query string;
// other views read a JSON body, or the form field q when the request is
// not JSON. A blank body yields nil.
func (d *Dispatcher) payload(spec *Spec, w http.ResponseWriter, r *http.Request) (any, error) {
	if spec.Method == GET {
		return r.URL.Query(), nil
	}
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		body, err := d.readBody(r)
		if err != nil {
			return nil, err
		}
		if viewspec.IsBlank(body) {
			return nil, nil
		}
		return viewspec.ParseJSON(body, d.opt)
	}
	if d.opt.MaxBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, d.opt.MaxBytes)
	}
	if err := r.ParseForm(); err != nil {
		return nil, &viewspec.ParseError{Msg: "malformed form", Cause: err}
	}
	q := "{}"
	if vs, ok := r.PostForm["q"]; ok && len(vs) > 0 {
		q = vs[len(vs)-1]
	}
	if strings.TrimSpace(q) == "" {
		return nil, nil
	}
	return viewspec.ParseJSON([]byte(q), d.opt)
}

func (d *Dispatcher) readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	var src io.Reader = r.Body
	if d.opt.MaxBytes > 0 {
		src = io.LimitReader(r.Body, d.opt.MaxBytes+1)
	}
	body, err := io.ReadAll(src)
	if err != nil {
		return nil, &viewspec.ParseError{Msg: "read body", Cause: err}
	}
	return body, nil
}

func (d *Dispatcher) check(spec *Spec, data any) (any, error) {
	if values, ok := data.(url.Values); ok {
		return spec.Payload.CoerceQuery(values)
	}
	return d.reg.CheckAndReturn(spec.Payload, data)
}

// respond validates the handler's result against the declared responses.
func (d *Dispatcher) respond(ep *Endpoint, w http.ResponseWriter, r *http.Request, res Result) {
	code := res.code()
	decl, ok := ep.spec.Response(code)
	if !ok {
		logger.Error(ep.name, "answered undeclared status", code)
		d.status(w, r, http.StatusInternalServerError)
		return
	}
	hasData := res.Data != nil
	switch {
	case decl.Schema == nil && hasData:
		logger.Error(ep.name, "returned data for status", code, "which declares no schema")
		d.status(w, r, http.StatusInternalServerError)
		return
	case decl.Schema != nil && !hasData:
		logger.Error(ep.name, "returned no data for status", code, "which declares a schema")
		d.status(w, r, http.StatusInternalServerError)
		return
	case decl.Schema == nil:
		d.status(w, r, code)
		return
	}

	body, err := json.Marshal(res.Data)
	if err == nil {
		var parsed any
		if parsed, err = viewspec.ParseJSON(body, viewspec.Options{}); err == nil {
			_, err = d.reg.CheckAndReturn(decl.Schema, parsed)
		}
	}
	if err != nil {
		var de *viewspec.DataError
		if errors.As(err, &de) {
			logger.Error(ep.name, "response", code, "breaks its contract:", de)
		} else {
			logger.Error(ep.name, "cannot encode response", code, ":", err)
		}
		d.status(w, r, http.StatusInternalServerError)
		return
	}
	d.writeRaw(w, r, code, body)
}

func (d *Dispatcher) status(w http.ResponseWriter, r *http.Request, code int) {
	w.WriteHeader(code)
	d.trace(r, code)
}

func (d *Dispatcher) writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	if err := middleware.WriteJSON(w, code, v); err != nil {
		logger.Error("write response:", err)
	}
	d.trace(r, code)
}

func (d *Dispatcher) writeRaw(w http.ResponseWriter, r *http.Request, code int, body []byte) {
	if err := middleware.WriteRaw(w, code, body); err != nil {
		logger.Error("write response:", err)
	}
	d.trace(r, code)
}

func (d *Dispatcher) trace(r *http.Request, code int) {
	if logger.IsVerbose() {
		logger.Verbose(r.Method, r.URL.Path, code)
	}
}

// truthy reports whether a payload counts as data for a view that accepts
// none. Empty containers, empty strings, zero numbers and false do not.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case url.Values:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	case []any:
		return len(x) > 0
	case string:
		return x != ""
	case bool:
		return x
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	}
	return true
}
