package model

import (
	"fmt"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-candidform/pkg/idl"
)

// Extractor converts types into structural field descriptors.
type Extractor struct {
	opts    Options
	visitor *idl.Visitor[scope, Field]
}

// scope carries the label assigned by the parent and the dotted path used
// for tracing.
type scope struct {
	label string
	path  string
}

func (s scope) child(label string) scope {
	if s.path == "" {
		return scope{label: label, path: label}
	}
	return scope{label: label, path: s.path + "." + label}
}

// New creates an Extractor with the supplied options.
func New(options Options) *Extractor {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.Tracer != nil {
		opts.Tracer = options.Tracer
	}

	e := &Extractor{opts: opts}
	e.visitor = &idl.Visitor[scope, Field]{
		Type:      e.visitType,
		Text:      e.visitText,
		Number:    e.visitNumber,
		Null:      e.visitNull,
		Bool:      e.visitBool,
		Principal: e.visitPrincipal,
		Record:    e.visitRecord,
		Variant:   e.visitVariant,
		Tuple:     e.visitTuple,
		Vector:    e.visitVector,
		Optional:  e.visitOptional,
		Recursive: e.visitRecursive,
	}
	return e
}

// Extract derives the descriptor for t. An empty label falls back to the
// type name.
func (e *Extractor) Extract(t idl.Type, label string) (Field, error) {
	if t == nil {
		return Field{}, errNilType
	}
	if label == "" {
		label = t.Name()
	}
	return e.extract(t, scope{label: label, path: label})
}

// ExtractMethod derives one descriptor per argument of fn. Arguments are
// labelled by position and traced under name.[i].
func (e *Extractor) ExtractMethod(name string, fn *idl.FuncType) (FormModel, error) {
	if fn == nil {
		return FormModel{}, errNilFunc
	}

	form := FormModel{
		Method:      name,
		Signature:   fn.Name(),
		Query:       slices.Contains(fn.Annotations, "query") || slices.Contains(fn.Annotations, "composite_query"),
		Fields:      make([]Field, 0, len(fn.Args)),
		Defaults:    make([]any, 0, len(fn.Args)),
		Annotations: slices.Clone(fn.Annotations),
	}
	for i, arg := range fn.Args {
		label := strconv.Itoa(i)
		field, err := e.extract(arg, scope{label: label, path: name + ".[" + label + "]"})
		if err != nil {
			return FormModel{}, fmt.Errorf("model extractor: method %s argument %d: %w", name, i, err)
		}
		form.Fields = append(form.Fields, field)
		form.Defaults = append(form.Defaults, field.Default)
	}
	return form, nil
}

// ExtractService derives a form per method, in declaration order.
func (e *Extractor) ExtractService(svc *idl.ServiceType) ([]FormModel, error) {
	if svc == nil {
		return nil, errNilType
	}
	forms := make([]FormModel, 0, len(svc.Methods))
	for _, m := range svc.Methods {
		form, err := e.ExtractMethod(m.Name, m.Func)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

func (e *Extractor) extract(t idl.Type, s scope) (Field, error) {
	field, err := idl.Accept(t, e.visitor, s)
	if err != nil {
		e.opts.Tracer.Fail(s.path, "extract", err)
		return Field{}, err
	}
	e.opts.Tracer.Step(s.path, "extract",
		zap.String("type", t.Name()),
		zap.String("field", string(field.Type)),
	)
	return field, nil
}

func (e *Extractor) base(t idl.Type, s scope, kind FieldType, component Component) Field {
	return Field{
		Label:     s.label,
		Display:   e.opts.Labeler(s.label),
		Type:      kind,
		Component: component,
		Validate:  validatorFor(t),
		Source:    t,
	}
}

func (e *Extractor) visitText(t *idl.TextType, s scope) (Field, error) {
	f := e.base(t, s, FieldTypeText, ComponentInput)
	f.Required = true
	f.Default = ""
	return f, nil
}

// visitType covers service and func references. They are entered as text
// but start empty, since "" is not a valid reference.
func (e *Extractor) visitType(t idl.Type, s scope) (Field, error) {
	f := e.base(t, s, FieldTypeText, ComponentInput)
	f.Required = true
	return f, nil
}

func (e *Extractor) visitNumber(t idl.NumberType, s scope) (Field, error) {
	f := e.base(t, s, FieldTypeNumber, ComponentInput)
	f.Required = true
	f.Bits = t.Bits()
	return f, nil
}

func (e *Extractor) visitNull(t *idl.NullType, s scope) (Field, error) {
	return e.base(t, s, FieldTypeNull, ComponentSpan), nil
}

func (e *Extractor) visitBool(t *idl.BoolType, s scope) (Field, error) {
	f := e.base(t, s, FieldTypeCheckbox, ComponentInput)
	f.Default = false
	return f, nil
}

func (e *Extractor) visitPrincipal(t *idl.PrincipalType, s scope) (Field, error) {
	return e.base(t, s, FieldTypePrincipal, ComponentInput), nil
}

func (e *Extractor) visitRecord(t *idl.RecordType, s scope) (Field, error) {
	f := e.base(t, s, FieldTypeRecord, ComponentFieldset)
	children, err := e.members(t.Fields, s)
	if err != nil {
		return Field{}, err
	}
	f.Fields = children
	defaults := make(map[string]any, len(children))
	for _, child := range children {
		defaults[child.Label] = child.Default
	}
	f.Default = defaults
	return f, nil
}

func (e *Extractor) visitTuple(t *idl.TupleType, s scope) (Field, error) {
	f := e.base(t, s, FieldTypeTuple, ComponentFieldset)
	children, err := e.members(t.Members(), s)
	if err != nil {
		return Field{}, err
	}
	f.Fields = children
	defaults := make([]any, len(children))
	for i, child := range children {
		defaults[i] = child.Default
	}
	f.Default = defaults
	return f, nil
}

func (e *Extractor) visitVariant(t *idl.VariantType, s scope) (Field, error) {
	f := e.base(t, s, FieldTypeVariant, ComponentFieldset)
	children, err := e.members(t.Fields, s)
	if err != nil {
		return Field{}, err
	}
	f.Fields = children
	f.Options = make([]string, len(children))
	for i, child := range children {
		f.Options[i] = child.Label
	}
	if len(children) > 0 {
		f.Default = map[string]any{children[0].Label: children[0].Default}
	}
	return f, nil
}

func (e *Extractor) visitVector(t *idl.VectorType, s scope) (Field, error) {
	return e.container(t, t.Elem, s, FieldTypeVector)
}

func (e *Extractor) visitOptional(t *idl.OptionalType, s scope) (Field, error) {
	return e.container(t, t.Elem, s, FieldTypeOptional)
}

// container describes vector and optional types. The single child is the
// element template; instances are created by the editor.
func (e *Extractor) container(t, elem idl.Type, s scope, kind FieldType) (Field, error) {
	f := e.base(t, s, kind, ComponentSpan)
	child, err := e.extract(elem, s.child("[]"))
	if err != nil {
		return Field{}, err
	}
	child.Label = s.label
	child.Display = f.Display
	f.Fields = []Field{child}
	f.Default = []any{}
	return f, nil
}

// visitRecursive checks that every name reachable from t resolves, but
// derives the body only when Extract is called.
func (e *Extractor) visitRecursive(t *idl.RecursiveType, s scope) (Field, error) {
	if err := checkResolvable(t); err != nil {
		return Field{}, err
	}
	f := e.base(t, s, FieldTypeRecursive, ComponentSpan)
	f.Extract = func() (Field, error) {
		body, err := t.Resolve()
		if err != nil {
			return Field{}, err
		}
		return e.extract(body, s)
	}
	return f, nil
}

// resolver walks the types the extractor would descend into, without
// building descriptors. Each recursive name is resolved once.
var resolver *idl.Visitor[map[string]struct{}, struct{}]

func init() {
	none := struct{}{}
	resolver = &idl.Visitor[map[string]struct{}, struct{}]{
		Type: func(idl.Type, map[string]struct{}) (struct{}, error) { return none, nil },
		Record: func(t *idl.RecordType, seen map[string]struct{}) (struct{}, error) {
			return none, resolveMembers(t.Fields, seen)
		},
		Variant: func(t *idl.VariantType, seen map[string]struct{}) (struct{}, error) {
			return none, resolveMembers(t.Fields, seen)
		},
		Tuple: func(t *idl.TupleType, seen map[string]struct{}) (struct{}, error) {
			return none, resolveMembers(t.Members(), seen)
		},
		Vector: func(t *idl.VectorType, seen map[string]struct{}) (struct{}, error) {
			return idl.Accept(t.Elem, resolver, seen)
		},
		Optional: func(t *idl.OptionalType, seen map[string]struct{}) (struct{}, error) {
			return idl.Accept(t.Elem, resolver, seen)
		},
		Recursive: func(t *idl.RecursiveType, seen map[string]struct{}) (struct{}, error) {
			if _, ok := seen[t.Name()]; ok {
				return none, nil
			}
			seen[t.Name()] = struct{}{}
			body, err := t.Resolve()
			if err != nil {
				return none, err
			}
			return idl.Accept(body, resolver, seen)
		},
	}
}

func checkResolvable(t *idl.RecursiveType) error {
	_, err := idl.Accept(idl.Type(t), resolver, map[string]struct{}{})
	return err
}

func resolveMembers(members []idl.Member, seen map[string]struct{}) error {
	for _, m := range members {
		if _, err := idl.Accept(m.Type, resolver, seen); err != nil {
			return err
		}
	}
	return nil
}

func (e *Extractor) members(members []idl.Member, s scope) ([]Field, error) {
	children := make([]Field, 0, len(members))
	for _, m := range members {
		child, err := e.extract(m.Type, s.child(m.Label))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
