package typedoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-candidform/pkg/idl"
)

var primitives = map[string]idl.Type{
	"null":      idl.Null,
	"bool":      idl.Bool,
	"text":      idl.Text,
	"int":       idl.Int,
	"nat":       idl.Nat,
	"float32":   idl.Float32,
	"float64":   idl.Float64,
	"principal": idl.Principal,
}

var modes = map[string]struct{}{
	"query":           {},
	"composite_query": {},
	"oneway":          {},
}

// builder turns a document tree into types bound to one registry.
type builder struct {
	source   string
	reg      *idl.Registry
	declared map[string]struct{}
}

func (b *builder) errorf(n node, at, format string, args ...any) error {
	where := b.source
	if n.line > 0 {
		where += ":" + strconv.Itoa(n.line)
	}
	return fmt.Errorf("typedoc: %s: %s: %s", where, at, fmt.Sprintf(format, args...))
}

func (b *builder) document(root node) (*Document, error) {
	if root.kind != mapNode {
		return nil, b.errorf(root, "document", "expected a mapping, got %s", root.kind)
	}
	doc := &Document{Source: b.source, Registry: b.reg}

	for i, key := range root.keys {
		value := root.items[i]
		switch key {
		case "service":
			name, err := b.scalar(value, "service")
			if err != nil {
				return nil, err
			}
			doc.Service = strings.TrimSpace(name)
		case "description":
			text, err := b.scalar(value, "description")
			if err != nil {
				return nil, err
			}
			doc.Description = sanitizeDescription(text)
		case "types", "methods":
		default:
			return nil, b.errorf(value, "document", "unknown key %q", key)
		}
	}

	types, _ := root.lookup("types")
	if err := b.types(types); err != nil {
		return nil, err
	}
	methods, _ := root.lookup("methods")
	list, err := b.methods(methods, "methods")
	if err != nil {
		return nil, err
	}
	doc.Methods = list
	return doc, nil
}

// types declares every name before building bodies so references may point
// forward or back to themselves.
func (b *builder) types(n node) error {
	if n.kind == nullNode {
		return nil
	}
	if n.kind != mapNode {
		return b.errorf(n, "types", "expected a mapping, got %s", n.kind)
	}
	for _, name := range n.keys {
		if _, ok := b.builtin(name); ok {
			return b.errorf(n, "types", "type name %q shadows a built-in type", name)
		}
		b.declared[name] = struct{}{}
	}
	for i, name := range n.keys {
		t, err := b.typeOf(n.items[i], "types."+name)
		if err != nil {
			return err
		}
		if err := b.reg.Define(name, t); err != nil {
			return b.errorf(n.items[i], "types."+name, "%v", err)
		}
	}
	for i, name := range n.keys {
		if _, err := b.reg.Rec(name).Resolve(); err != nil {
			return b.errorf(n.items[i], "types."+name, "%v", err)
		}
	}
	return nil
}

func (b *builder) methods(n node, at string) ([]Method, error) {
	if n.kind == nullNode {
		return nil, nil
	}
	if n.kind != mapNode {
		return nil, b.errorf(n, at, "expected a mapping, got %s", n.kind)
	}
	out := make([]Method, 0, len(n.keys))
	for i, name := range n.keys {
		if strings.TrimSpace(name) == "" {
			return nil, b.errorf(n, at, "empty method name")
		}
		fn, desc, err := b.function(n.items[i], at+"."+name, true)
		if err != nil {
			return nil, err
		}
		out = append(out, Method{Name: name, Description: desc, Func: fn})
	}
	return out, nil
}

func (b *builder) typeOf(n node, at string) (idl.Type, error) {
	switch n.kind {
	case nullNode:
		return idl.Null, nil
	case scalarNode:
		return b.named(n, at)
	case mapNode:
		if len(n.keys) != 1 {
			return nil, b.errorf(n, at, "type constructor must have exactly one key, got %d", len(n.keys))
		}
		return b.constructor(n.keys[0], n.items[0], at+"."+n.keys[0])
	default:
		return nil, b.errorf(n, at, "expected a type, got %s", n.kind)
	}
}

func (b *builder) named(n node, at string) (idl.Type, error) {
	name := strings.TrimSpace(n.value)
	if name == "" {
		return idl.Null, nil
	}
	if t, ok := b.builtin(name); ok {
		if t == nil {
			return nil, b.errorf(n, at, "invalid width in %q", name)
		}
		return t, nil
	}
	if _, ok := b.declared[name]; ok {
		return b.reg.Rec(name), nil
	}
	return nil, b.errorf(n, at, "unknown type %q", name)
}

// builtin reports whether name is a primitive or an intN/natN width. A
// width outside the allowed range returns ok with a nil type.
func (b *builder) builtin(name string) (idl.Type, bool) {
	if t, ok := primitives[name]; ok {
		return t, true
	}
	for _, prefix := range []string{"int", "nat"} {
		digits, found := strings.CutPrefix(name, prefix)
		if !found || digits == "" {
			continue
		}
		bits, err := strconv.Atoi(digits)
		if err != nil {
			return nil, false
		}
		if prefix == "int" {
			t, err := idl.NewFixedInt(bits)
			if err != nil {
				return nil, true
			}
			return t, true
		}
		t, err := idl.NewFixedNat(bits)
		if err != nil {
			return nil, true
		}
		return t, true
	}
	return nil, false
}

func (b *builder) constructor(ctor string, body node, at string) (idl.Type, error) {
	switch ctor {
	case "opt", "vec":
		elem, err := b.typeOf(body, at)
		if err != nil {
			return nil, err
		}
		if ctor == "opt" {
			return idl.Opt(elem), nil
		}
		return idl.Vec(elem), nil
	case "record":
		members, err := b.members(body, at)
		if err != nil {
			return nil, err
		}
		t, err := idl.NewRecord(members...)
		if err != nil {
			return nil, b.errorf(body, at, "%v", err)
		}
		return t, nil
	case "variant":
		members, err := b.members(body, at)
		if err != nil {
			return nil, err
		}
		t, err := idl.NewVariant(members...)
		if err != nil {
			return nil, b.errorf(body, at, "%v", err)
		}
		return t, nil
	case "tuple":
		elems, err := b.list(body, at)
		if err != nil {
			return nil, err
		}
		return idl.Tuple(elems...), nil
	case "func":
		fn, _, err := b.function(body, at, false)
		return fn, err
	case "service":
		methods, err := b.methods(body, at)
		if err != nil {
			return nil, err
		}
		svc := make([]idl.Method, len(methods))
		for i, m := range methods {
			svc[i] = idl.Method{Name: m.Name, Func: m.Func}
		}
		return idl.Service(svc...), nil
	default:
		return nil, b.errorf(body, at, "unknown type constructor %q", ctor)
	}
}

func (b *builder) members(n node, at string) ([]idl.Member, error) {
	if n.kind == nullNode {
		return nil, nil
	}
	if n.kind != mapNode {
		return nil, b.errorf(n, at, "expected a mapping of labels to types, got %s", n.kind)
	}
	out := make([]idl.Member, 0, len(n.keys))
	for i, label := range n.keys {
		t, err := b.typeOf(n.items[i], at+"."+label)
		if err != nil {
			return nil, err
		}
		out = append(out, idl.Field(label, t))
	}
	return out, nil
}

func (b *builder) list(n node, at string) ([]idl.Type, error) {
	if n.kind == nullNode {
		return nil, nil
	}
	if n.kind != listNode {
		return nil, b.errorf(n, at, "expected a list of types, got %s", n.kind)
	}
	out := make([]idl.Type, 0, len(n.items))
	for i, item := range n.items {
		t, err := b.typeOf(item, at+".["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// function reads {args, returns, modes}. Descriptions are accepted only for
// service methods.
func (b *builder) function(n node, at string, method bool) (*idl.FuncType, string, error) {
	if n.kind == nullNode {
		return idl.Func(nil, nil), "", nil
	}
	if n.kind != mapNode {
		return nil, "", b.errorf(n, at, "expected a mapping, got %s", n.kind)
	}
	var (
		args, rets  []idl.Type
		annotations []string
		description string
		err         error
	)
	for i, key := range n.keys {
		value := n.items[i]
		switch {
		case key == "args":
			args, err = b.list(value, at+".args")
		case key == "returns":
			rets, err = b.list(value, at+".returns")
		case key == "modes":
			annotations, err = b.modes(value, at+".modes")
		case key == "description" && method:
			var text string
			text, err = b.scalar(value, at+".description")
			description = sanitizeDescription(text)
		default:
			err = b.errorf(value, at, "unknown key %q", key)
		}
		if err != nil {
			return nil, "", err
		}
	}
	return idl.Func(args, rets, annotations...), description, nil
}

func (b *builder) modes(n node, at string) ([]string, error) {
	if n.kind == nullNode {
		return nil, nil
	}
	if n.kind != listNode {
		return nil, b.errorf(n, at, "expected a list, got %s", n.kind)
	}
	out := make([]string, 0, len(n.items))
	for _, item := range n.items {
		mode, err := b.scalar(item, at)
		if err != nil {
			return nil, err
		}
		if _, ok := modes[mode]; !ok {
			return nil, b.errorf(item, at, "unknown mode %q", mode)
		}
		out = append(out, mode)
	}
	return out, nil
}

func (b *builder) scalar(n node, at string) (string, error) {
	switch n.kind {
	case scalarNode:
		return n.value, nil
	case nullNode:
		return "", nil
	default:
		return "", b.errorf(n, at, "expected a scalar, got %s", n.kind)
	}
}
