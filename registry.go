package viewspec

import (
	"sort"
	"sync"

	"github.com/reoring/viewspec/internal/cache"
	js "github.com/reoring/viewspec/jsonschema"
)

// Registry holds the named, reusable definitions of one application and the
// validators compiled against them. Definitions are added at startup and
// never removed.
type Registry struct {
	mu         sync.RWMutex
	defs       map[string]*Node // keyed by reference path
	opt        Options
	validators *cache.LRU[*Node, *Validator]
}

// NewRegistry returns an empty registry. The last Options value wins.
func NewRegistry(opts ...Options) *Registry {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return &Registry{
		defs:       map[string]*Node{},
		opt:        opt,
		validators: cache.New[*Node, *Validator](opt.CacheSize),
	}
}

// Options returns the registry configuration.
func (r *Registry) Options() Options { return r.opt }

// Define registers inner under name and returns the Definition node that
// references it. A second registration of the same name fails and leaves the
// first one intact.
func (r *Registry) Define(name string, inner *Node) (*Node, error) {
	if err := checkBody(name, inner); err != nil {
		return nil, err
	}
	return r.declare(name, inner)
}

// Declare registers name without a body so that schemas can refer to it
// before it is bound, which is how recursive schemas are built. The body is
// supplied later with Bind.
func (r *Registry) Declare(name string) (*Node, error) { return r.declare(name, nil) }

func (r *Registry) declare(name string, inner *Node) (*Node, error) {
	if name == "" {
		return nil, Configf("definition name must not be empty")
	}
	ref := js.RefTo(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.defs[ref]; dup {
		return nil, Configf("duplicate definition %s", ref)
	}
	d := &Node{kind: KindDefinition, name: name, elem: inner}
	r.defs[ref] = d
	return d, nil
}

// Bind sets the body of a declared definition. Each definition is bound once.
func (r *Registry) Bind(d *Node, inner *Node) error {
	if d == nil || d.kind != KindDefinition {
		return Configf("bind target is not a definition")
	}
	if err := checkBody(d.name, inner); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defs[js.RefTo(d.name)] != d {
		return Configf("definition %q is not registered here", d.name)
	}
	if d.elem != nil {
		return Configf("definition %q is already bound", d.name)
	}
	d.elem = inner
	return nil
}

// Verify reports declared definitions that were never bound.
func (r *Registry) Verify() error {
	for _, d := range r.Definitions() {
		if r.Body(d) == nil {
			return Configf("definition %q is declared but never bound", d.name)
		}
	}
	return nil
}

// Body returns the schema bound to definition d, or nil while d is only
// declared or is not a definition.
func (r *Registry) Body(d *Node) *Node {
	if d == nil || d.kind != KindDefinition {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return d.elem
}

func checkBody(name string, inner *Node) error {
	if inner == nil || inner == Empty || inner.kind == kindEmpty || inner.kind == KindOptional {
		return Configf("definition %q needs a concrete schema", name)
	}
	return nil
}

// MustDefine is Define that panics on error, for package-level declarations.
func (r *Registry) MustDefine(name string, inner *Node) *Node {
	d, err := r.Define(name, inner)
	if err != nil {
		panic(err)
	}
	return d
}

// Lookup returns the definition registered under a reference path.
func (r *Registry) Lookup(ref string) (*Node, bool) {
	r.mu.RLock()
	d, ok := r.defs[ref]
	r.mu.RUnlock()
	return d, ok
}

// Definitions returns every registered definition ordered by name.
func (r *Registry) Definitions() []*Node {
	r.mu.RLock()
	var out []*Node
	for _, d := range r.defs {
		out = append(out, d)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// CollectRefs returns the registered definitions referenced anywhere in doc,
// ordered by name. It follows $ref strings only and never descends into a
// referenced definition's body.
func (r *Registry) CollectRefs(doc *js.Schema) []*Node {
	seen := map[string]*Node{}
	js.Walk(doc, func(s *js.Schema) {
		if s.Ref == "" {
			return
		}
		if d, ok := r.Lookup(s.Ref); ok {
			seen[s.Ref] = d
		}
	})
	var out []*Node
	for _, d := range seen {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Embed makes doc self-contained. Without references doc is returned
// unchanged; otherwise a shallow copy is returned whose definitions hold the
// rendered body of every transitively referenced definition.
func (r *Registry) Embed(doc *js.Schema) *js.Schema {
	pending := r.CollectRefs(doc)
	if len(pending) == 0 {
		return doc
	}
	defs := map[string]*js.Schema{}
	for len(pending) > 0 {
		d := pending[0]
		pending = pending[1:]
		if _, done := defs[d.name]; done {
			continue
		}
		inner := r.Body(d)
		if inner == nil {
			// unbound declaration; Verify reports it
			defs[d.name] = &js.Schema{}
			continue
		}
		body := inner.Render()
		defs[d.name] = body
		pending = append(pending, r.CollectRefs(body)...)
	}
	out := *doc
	out.Definitions = defs
	return &out
}

// RenderDefinitions renders the body of every registered definition, keyed
// by name. Unbound declarations render as the empty schema.
func (r *Registry) RenderDefinitions() map[string]*js.Schema {
	out := map[string]*js.Schema{}
	for _, d := range r.Definitions() {
		if inner := r.Body(d); inner != nil {
			out[d.name] = inner.Render()
		} else {
			out[d.name] = &js.Schema{}
		}
	}
	return out
}
