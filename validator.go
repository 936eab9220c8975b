package viewspec

import (
	"github.com/reoring/viewspec/internal/engine"
)

// Validator checks already-parsed JSON values against one schema node.
type Validator struct {
	node *Node
	prog *engine.Program
}

// Validator returns the compiled validator for n, building it on first use.
// Validators are memoized per node identity.
func (r *Registry) Validator(n *Node) (*Validator, error) {
	if n == nil || n == Empty || n.kind == kindEmpty || n.kind == KindOptional {
		return nil, Configf("cannot validate against a %s marker", kindName(n))
	}
	return r.validators.GetOrBuild(n, func() (*Validator, error) {
		if err := r.Verify(); err != nil {
			return nil, err
		}
		prog, err := engine.Compile(r.Embed(n.Render()))
		if err != nil {
			return nil, Configf("compile schema: %v", err)
		}
		return &Validator{node: n, prog: prog}, nil
	})
}

// CheckAndReturn validates instance against n and returns it unchanged.
func (r *Registry) CheckAndReturn(n *Node, instance any) (any, error) {
	v, err := r.Validator(n)
	if err != nil {
		return nil, err
	}
	return v.CheckAndReturn(instance)
}

// Node returns the schema the validator was built from.
func (v *Validator) Node() *Node { return v.node }

// CheckAndReturn returns instance unchanged when it conforms. Otherwise it
// returns a *DataError listing every violation in a stable order.
func (v *Validator) CheckAndReturn(instance any) (any, error) {
	found := v.prog.Validate(instance)
	if len(found) == 0 {
		return instance, nil
	}
	de := &DataError{Violations: make([]Violation, 0, len(found))}
	for _, f := range found {
		p := Path(f.Path)
		if p == nil {
			p = Path{}
		}
		de.Violations = append(de.Violations, Violation{Path: p, Message: f.Message})
	}
	return nil, de
}

func kindName(n *Node) string {
	if n == nil {
		return "nil"
	}
	return n.kind.String()
}
