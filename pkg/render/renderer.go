package render

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/trace"
	"github.com/goliatone/go-candidform/pkg/widgets"
)

// Renderer writes generic values into widget trees.
type Renderer struct {
	tracer *trace.Tracer
}

type frame struct {
	r     *Renderer
	h     widgets.Handle
	value any
	path  string
}

func (f frame) at(h widgets.Handle, value any, segment string) frame {
	return frame{r: f.r, h: h, value: value, path: joinPath(f.path, segment)}
}

var renderer *idl.Visitor[frame, struct{}]

func init() {
	renderer = &idl.Visitor[frame, struct{}]{
		Primitive: renderScalar,
		Service:   func(t *idl.ServiceType, f frame) (struct{}, error) { return renderScalar(t, f) },
		Func:      func(t *idl.FuncType, f frame) (struct{}, error) { return renderScalar(t, f) },
		Record:    renderRecord,
		Tuple:     renderTuple,
		Optional:  renderOptional,
		Vector:    renderVector,
		Variant:   renderVariant,
		Recursive: renderRecursive,
	}
}

// New constructs a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{tracer: trace.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render writes value into the widget subtree rooted at h, driving enable,
// length and tag controls so the editor materialises matching children.
func (r *Renderer) Render(t idl.Type, h widgets.Handle, value any) error {
	if t == nil {
		return fmt.Errorf("render: type is required")
	}
	if h == nil {
		return fmt.Errorf("render: widget handle is required")
	}
	_, err := idl.Accept(t, renderer, frame{r: r, h: h, value: value})
	return err
}

// Render uses a default Renderer.
func Render(t idl.Type, h widgets.Handle, value any) error {
	return New().Render(t, h, value)
}

func (f frame) step(op string, t idl.Type) {
	f.r.tracer.Step(f.path, op, zap.String("type", t.Name()))
}

func renderScalar(t idl.Type, f frame) (struct{}, error) {
	text, err := idl.FormatValue(t, f.value)
	if err != nil {
		return struct{}{}, &StructuralError{Path: f.path, Type: t.Name(), Reason: "value not accepted", Err: err}
	}
	f.step("render.scalar", t)
	return struct{}{}, widgetErr(f.path, "set text", f.h.SetText(text))
}

func renderRecord(t *idl.RecordType, f frame) (struct{}, error) {
	m, ok := f.value.(map[string]any)
	if !ok {
		return struct{}{}, mismatch(f.path, t.Name(), "expected record value, got %T", f.value)
	}
	f.step("render.record", t)
	for i, field := range t.Fields {
		v, present := m[field.Label]
		if !present {
			return struct{}{}, mismatch(joinPath(f.path, field.Label), t.Name(), "record value is missing key %q", field.Label)
		}
		if err := f.child(field.Type, i, field.Label, v); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, nil
}

func renderTuple(t *idl.TupleType, f frame) (struct{}, error) {
	list, ok := f.value.([]any)
	if !ok || len(list) != len(t.Elems) {
		return struct{}{}, mismatch(f.path, t.Name(), "expected %d tuple values, got %T of length %d", len(t.Elems), f.value, lengthOf(f.value))
	}
	f.step("render.tuple", t)
	for i, elem := range t.Elems {
		if err := f.child(elem, i, strconv.Itoa(i), list[i]); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, nil
}

func renderOptional(t *idl.OptionalType, f frame) (struct{}, error) {
	list, ok := f.value.([]any)
	if !ok || len(list) > 1 {
		return struct{}{}, mismatch(f.path, t.Name(), "expected optional value of length 0 or 1, got %T of length %d", f.value, lengthOf(f.value))
	}
	if len(list) == 0 {
		return struct{}{}, nil
	}
	f.step("render.optional", t)
	if err := f.h.SetEnabled(true); err != nil {
		return struct{}{}, widgetErr(f.path, "enable", err)
	}
	return struct{}{}, f.child(t.Elem, 0, "[0]", list[0])
}

func renderVector(t *idl.VectorType, f frame) (struct{}, error) {
	list, ok := f.value.([]any)
	if !ok {
		return struct{}{}, mismatch(f.path, t.Name(), "expected vector value, got %T", f.value)
	}
	f.step("render.vector", t)
	if err := f.h.SetLength(len(list)); err != nil {
		return struct{}{}, widgetErr(f.path, "resize", err)
	}
	for i, item := range list {
		if err := f.child(t.Elem, i, "["+strconv.Itoa(i)+"]", item); err != nil {
			return struct{}{}, err
		}
	}
	return struct{}{}, nil
}

// renderVariant selects the populated tag; the active branch is child 0.
func renderVariant(t *idl.VariantType, f frame) (struct{}, error) {
	m, ok := f.value.(map[string]any)
	if !ok {
		return struct{}{}, mismatch(f.path, t.Name(), "expected variant value, got %T", f.value)
	}
	if len(m) != 1 {
		return struct{}{}, mismatch(f.path, t.Name(), "variant value must populate exactly one tag, got %d", len(m))
	}
	var label string
	var payload any
	for l, p := range m {
		label, payload = l, p
	}
	idx := t.Index(label)
	if idx < 0 {
		return struct{}{}, mismatch(f.path, t.Name(), "variant has no alternative %q", label)
	}
	f.step("render.variant", t)
	if err := f.h.Select(idx); err != nil {
		return struct{}{}, widgetErr(f.path, "select", err)
	}
	return struct{}{}, f.child(t.Fields[idx].Type, 0, label, payload)
}

func renderRecursive(t *idl.RecursiveType, f frame) (struct{}, error) {
	body, err := t.Resolve()
	if err != nil {
		return struct{}{}, err
	}
	return idl.Accept(body, renderer, f)
}

func (f frame) child(t idl.Type, index int, segment string, value any) error {
	h, err := f.h.Child(index)
	if err != nil {
		return widgetErr(joinPath(f.path, segment), "child", err)
	}
	if h == nil {
		return mismatch(joinPath(f.path, segment), t.Name(), "widget has no child %d", index)
	}
	_, err = idl.Accept(t, renderer, f.at(h, value, segment))
	return err
}

func lengthOf(v any) int {
	if list, ok := v.([]any); ok {
		return len(list)
	}
	return 0
}
