package idl

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnresolved is returned when a recursive reference names a type the
// registry does not define.
var ErrUnresolved = errors.New("idl: unresolved type reference")

// Registry stores named type definitions. Recursive references resolve by
// lookup, so a registry can be populated after the references into it are
// created.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Type)}
}

// Define binds name to t. Redefinition is an error.
func (r *Registry) Define(name string, t Type) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("idl: type name is required")
	}
	if t == nil {
		return fmt.Errorf("idl: type %q has no definition", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("idl: type %q already defined", name)
	}
	r.defs[name] = t
	return nil
}

// MustDefine panics on registration failure. Useful for literal type
// declarations.
func (r *Registry) MustDefine(name string, t Type) {
	if err := r.Define(name, t); err != nil {
		panic(err)
	}
}

// Lookup returns the definition bound to name.
func (r *Registry) Lookup(name string) (Type, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.defs[name]
	return t, ok
}

// Names returns the defined names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.defs))
	for name := range r.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Rec returns a recursive reference to name. The name does not need to be
// defined yet.
func (r *Registry) Rec(name string) *RecursiveType {
	return &RecursiveType{name: strings.TrimSpace(name), registry: r}
}

// RecursiveType is a named reference resolved through its registry on
// demand.
type RecursiveType struct {
	name     string
	registry *Registry
}

func (t *RecursiveType) Kind() Kind   { return KindRecursive }
func (t *RecursiveType) Name() string { return t.name }

// Resolve looks up the structural body, following alias chains. A chain
// that loops back without reaching a structural type is an error.
func (t *RecursiveType) Resolve() (Type, error) {
	seen := map[string]struct{}{}
	current := t
	for {
		if _, loop := seen[current.name]; loop {
			return nil, fmt.Errorf("idl: type %q has no structural definition", t.name)
		}
		seen[current.name] = struct{}{}

		body, ok := current.registry.Lookup(current.name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnresolved, current.name)
		}
		next, alias := body.(*RecursiveType)
		if !alias {
			return body, nil
		}
		current = next
	}
}

// Covariant checks v against the resolved body.
func (t *RecursiveType) Covariant(v any) error {
	body, err := t.Resolve()
	if err != nil {
		return err
	}
	return body.Covariant(v)
}
