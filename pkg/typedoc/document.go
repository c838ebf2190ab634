package typedoc

import (
	"github.com/goliatone/go-candidform/pkg/idl"
)

// Document is a loaded interface document.
type Document struct {
	Source      string
	Service     string
	Description string
	// Registry holds the named types. References between them are
	// idl.RecursiveType values bound to this registry.
	Registry *idl.Registry
	Methods  []Method
}

// Method is one service entry in declaration order.
type Method struct {
	Name        string
	Description string
	Func        *idl.FuncType
}

// Method returns the method called name.
func (d *Document) Method(name string) (Method, bool) {
	if d == nil {
		return Method{}, false
	}
	for _, m := range d.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// Type returns a reference to the named type.
func (d *Document) Type(name string) (idl.Type, bool) {
	if d == nil {
		return nil, false
	}
	if _, ok := d.Registry.Lookup(name); !ok {
		return nil, false
	}
	return d.Registry.Rec(name), true
}

// TypeNames lists the declared type names in sorted order.
func (d *Document) TypeNames() []string {
	if d == nil || d.Registry == nil {
		return nil
	}
	return d.Registry.Names()
}

// Actor returns the service type built from the methods.
func (d *Document) Actor() *idl.ServiceType {
	if d == nil {
		return idl.Service()
	}
	methods := make([]idl.Method, len(d.Methods))
	for i, m := range d.Methods {
		methods[i] = idl.Method{Name: m.Name, Func: m.Func}
	}
	return idl.Service(methods...)
}
