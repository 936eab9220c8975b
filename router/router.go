package router

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	viewspec "github.com/reoring/viewspec"
	"github.com/reoring/viewspec/swagger"
	"github.com/reoring/viewspec/view"
)

// Options describes how endpoints are mounted and documented.
type Options struct {
	Name     string
	BasePath string
	Schemes  []string
	Title    string
	Version  string
	Dispatch view.Options
}

// Option mutates Options.
type Option func(*Options)

func WithName(name string) Option          { return func(o *Options) { o.Name = name } }
func WithBasePath(path string) Option      { return func(o *Options) { o.BasePath = path } }
func WithSchemes(schemes ...string) Option { return func(o *Options) { o.Schemes = schemes } }
func WithTitle(title string) Option        { return func(o *Options) { o.Title = title } }
func WithVersion(version string) Option    { return func(o *Options) { o.Version = version } }
func WithDispatch(d view.Options) Option   { return func(o *Options) { o.Dispatch = d } }

// DefaultOptions mounts endpoints under /api.
func DefaultOptions() Options {
	return Options{Name: "viewspec", BasePath: "/api", Schemes: []string{"http"}, Version: "1.0"}
}

// Router collects endpoints explicitly registered against one registry.
type Router struct {
	mu        sync.RWMutex
	reg       *viewspec.Registry
	disp      *view.Dispatcher
	opt       Options
	endpoints []*view.Endpoint
	byPath    map[string]*view.Endpoint
}

// New returns an empty router.
func New(reg *viewspec.Registry, opts ...Option) *Router {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	o.BasePath = "/" + strings.Trim(o.BasePath, "/")
	if o.BasePath == "/" {
		o.BasePath = ""
	}
	if o.Title == "" {
		o.Title = o.Name
	}
	return &Router{
		reg:    reg,
		disp:   view.NewDispatcher(reg, o.Dispatch),
		opt:    o,
		byPath: map[string]*view.Endpoint{},
	}
}

func (r *Router) Options() Options             { return r.opt }
func (r *Router) Registry() *viewspec.Registry { return r.reg }
func (r *Router) Dispatcher() *view.Dispatcher { return r.disp }

// Register adds endpoints. Two endpoints may not share a path.
func (r *Router) Register(eps ...*view.Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ep := range eps {
		if ep == nil {
			return viewspec.Configf("nil endpoint")
		}
		if prev, ok := r.byPath[ep.Path()]; ok {
			return viewspec.Configf("%s and %s share path %s", prev.Name(), ep.Name(), ep.Path())
		}
		r.byPath[ep.Path()] = ep
		r.endpoints = append(r.endpoints, ep)
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Router) MustRegister(eps ...*view.Endpoint) *Router {
	if err := r.Register(eps...); err != nil {
		panic(err)
	}
	return r
}

// Endpoints returns the registered endpoints in registration order.
func (r *Router) Endpoints() []*view.Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*view.Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Route is the documented path of ep, relative to the base path.
func Route(ep *view.Endpoint) string { return "/" + ep.Path() + "/" }

// URL is the full request path of ep.
func (r *Router) URL(ep *view.Endpoint) string { return r.opt.BasePath + Route(ep) }

// Handler mounts every registered endpoint at <basePath>/<path>/.
func (r *Router) Handler() http.Handler {
	m := mux.NewRouter()
	for _, ep := range r.Endpoints() {
		m.Path(r.URL(ep)).Handler(r.disp.Handler(ep)).Name(ep.Name())
	}
	return m
}

// Swagger describes every registered endpoint. All registered definitions
// are listed, whether or not an endpoint references them.
func (r *Router) Swagger() *swagger.Document {
	doc := swagger.New(r.opt.BasePath, r.opt.Schemes...)
	doc.Info = swagger.Info{Title: r.opt.Title, Version: r.opt.Version}
	if doc.BasePath == "" {
		doc.BasePath = "/"
	}
	for _, ep := range r.Endpoints() {
		doc.Paths[Route(ep)] = swagger.PathItem{
			strings.ToLower(string(ep.Spec().Method)): ep.Operation(),
		}
	}
	if defs := r.reg.RenderDefinitions(); len(defs) > 0 {
		doc.Definitions = defs
	}
	return doc
}
