package editor

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/model"
	"github.com/goliatone/go-candidform/pkg/transcode"
	"github.com/goliatone/go-candidform/pkg/widgets"
)

// Node is one live editor element. Its path is derived from its parent, so
// shifting vector siblings renumbers whole subtrees at once.
type Node struct {
	c        *Composer
	field    model.Field
	parent   *Node
	seg      string
	children []*Node

	selected  int
	text      string
	err       string
	destroyed bool
}

var _ widgets.Handle = (*Node)(nil)

// Path is the node's address in the form-state container.
func (n *Node) Path() string {
	switch {
	case n.parent == nil:
		return n.seg
	case n.seg == "":
		return n.parent.Path()
	default:
		return n.parent.Path() + "." + n.seg
	}
}

// Field returns the descriptor the node was built from.
func (n *Node) Field() model.Field { return n.field }

// Kind is the descriptor type tag.
func (n *Node) Kind() model.FieldType { return n.field.Type }

// Children returns the current child nodes. A variant has at most one, the
// active alternative; an expanded recursive node has its body.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Len is the number of children of the node, or of the body of a recursive
// node once expanded.
func (n *Node) Len() int {
	t := n.resolved()
	return len(t.children)
}

// Enabled reports whether an optional node holds a value.
func (n *Node) Enabled() bool {
	t := n.resolved()
	return t.field.Type == model.FieldTypeOptional && len(t.children) == 1
}

// Selected returns the active variant label.
func (n *Node) Selected() string {
	t := n.resolved()
	if t.field.Type != model.FieldTypeVariant || t.selected < 0 {
		return ""
	}
	return t.field.Options[t.selected]
}

// Error is the pending field-local message of a leaf.
func (n *Node) Error() string { return n.resolved().err }

// Text is the raw input of a leaf.
func (n *Node) Text() string { return n.resolved().text }

// Expand derives the body of a recursive node, once, and returns it. Other
// kinds return the node itself.
func (n *Node) Expand() (*Node, error) {
	return n.target()
}

// SetText parses raw into the leaf. On failure the previous value is kept,
// the message is recorded on the node and returned as a *FieldError. In
// random mode an empty string clears the leaf so it is synthesized on
// submit.
func (n *Node) SetText(raw string) error {
	t, err := n.target()
	if err != nil {
		return err
	}
	if !t.field.IsLeaf() {
		return invalidOp(t, "set text")
	}
	return t.setText(raw)
}

// SetEnabled is OnExpand for the widget contract.
func (n *Node) SetEnabled(enabled bool) error { return n.OnExpand(enabled) }

// SetLength is OnResize for the widget contract.
func (n *Node) SetLength(length int) error { return n.OnResize(length) }

// Select activates the variant alternative at index.
func (n *Node) Select(index int) error {
	t, err := n.target()
	if err != nil {
		return err
	}
	if t.field.Type != model.FieldTypeVariant {
		return invalidOp(t, "select")
	}
	if index < 0 || index >= len(t.field.Options) {
		return fmt.Errorf("editor: %s: variant option %d out of range", t.Path(), index)
	}
	return t.retag(index)
}

// Child returns the i-th child handle. A variant's active alternative is
// child 0.
func (n *Node) Child(index int) (widgets.Handle, error) {
	c, err := n.ChildNode(index)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ChildNode is Child returning the concrete node.
func (n *Node) ChildNode(index int) (*Node, error) {
	t, err := n.target()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(t.children) {
		return nil, fmt.Errorf("editor: %s: no child %d", t.Path(), index)
	}
	return t.children[index], nil
}

// OnExpand enables or disables an optional node, creating or destroying its
// single child.
func (n *Node) OnExpand(enabled bool) error {
	t, err := n.target()
	if err != nil {
		return err
	}
	if t.field.Type != model.FieldTypeOptional {
		return invalidOp(t, "expand")
	}
	switch {
	case enabled && len(t.children) == 0:
		_, err := t.addChild(t.field.Fields[0], "[0]")
		return err
	case !enabled && len(t.children) == 1:
		t.children[0].destroy(true)
		t.children = nil
		t.c.tracer.Step(t.Path(), "editor.collapse")
	}
	return nil
}

// OnResize appends or removes trailing vector items until the vector holds
// length items.
func (n *Node) OnResize(length int) error {
	t, err := n.target()
	if err != nil {
		return err
	}
	if t.field.Type != model.FieldTypeVector {
		return invalidOp(t, "resize")
	}
	if length < 0 {
		return fmt.Errorf("editor: %s: negative length %d", t.Path(), length)
	}
	for len(t.children) < length {
		if _, err := t.Append(); err != nil {
			return err
		}
	}
	for len(t.children) > length {
		if err := t.Remove(len(t.children) - 1); err != nil {
			return err
		}
	}
	return nil
}

// OnRetag switches the variant to the alternative labelled label. The old
// branch and its stored values are discarded and the new branch starts
// from its default.
func (n *Node) OnRetag(label string) error {
	t, err := n.target()
	if err != nil {
		return err
	}
	if t.field.Type != model.FieldTypeVariant {
		return invalidOp(t, "retag")
	}
	for i, option := range t.field.Options {
		if option == label {
			return t.retag(i)
		}
	}
	return fmt.Errorf("editor: %s: variant has no alternative %q", t.Path(), label)
}

// Append adds one item to a vector, or enables a collapsed optional, and
// returns the new child.
func (n *Node) Append() (*Node, error) {
	t, err := n.target()
	if err != nil {
		return nil, err
	}
	switch t.field.Type {
	case model.FieldTypeVector:
		return t.addChild(t.field.Fields[0], "["+strconv.Itoa(len(t.children))+"]")
	case model.FieldTypeOptional:
		if len(t.children) == 1 {
			return nil, fmt.Errorf("editor: %s: optional already holds a value", t.Path())
		}
		return t.addChild(t.field.Fields[0], "[0]")
	default:
		return nil, invalidOp(t, "append")
	}
}

// Remove destroys the item at index i. Later vector items move down by one
// and their paths follow; removing the item of an optional collapses it.
func (n *Node) Remove(i int) error {
	t, err := n.target()
	if err != nil {
		return err
	}
	if t.field.Type != model.FieldTypeVector && t.field.Type != model.FieldTypeOptional {
		return invalidOp(t, "remove")
	}
	if i < 0 || i >= len(t.children) {
		return fmt.Errorf("editor: %s: no item %d", t.Path(), i)
	}
	t.children[i].destroy(true)
	t.children = append(t.children[:i], t.children[i+1:]...)
	for j := i; j < len(t.children); j++ {
		t.children[j].seg = "[" + strconv.Itoa(j) + "]"
	}
	t.c.tracer.Step(t.Path(), "editor.remove", zap.Int("index", i), zap.Int("length", len(t.children)))
	return nil
}

// SetValue replaces the subtree with v by resetting the node and rendering
// v through it.
func (n *Node) SetValue(v any) error {
	if n.destroyed {
		return ErrDestroyed
	}
	if n.field.Source == nil {
		return fmt.Errorf("editor: %s: field has no source type", n.Path())
	}
	if err := n.field.Source.Covariant(v); err != nil {
		return &FieldError{Path: n.Path(), Message: err.Error()}
	}
	if err := n.Reset(); err != nil {
		return err
	}
	return n.c.renderer.Render(n.field.Source, n, v)
}

// Reset restores the descriptor defaults: leaves get their default text,
// vectors and optionals collapse, variants return to the first alternative
// and recursive nodes drop their body.
func (n *Node) Reset() error {
	if n.destroyed {
		return ErrDestroyed
	}
	for _, child := range n.children {
		child.destroy(false)
	}
	n.children = nil
	n.selected = -1
	n.text, n.err = "", ""
	n.clearSlot()
	return n.init()
}

// Value assembles the generic value of the subtree. Untouched leaves follow
// the random/parse selection policy.
func (n *Node) Value() (any, error) {
	var errs ValidationErrors
	v, err := n.collect(&errs, 0)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return v, nil
}

// Submit assembles the value and hands it to fn.
func (n *Node) Submit(fn func(any) error) error {
	v, err := n.Value()
	if err != nil {
		return err
	}
	n.c.tracer.Step(n.Path(), "editor.submit")
	if fn == nil {
		return nil
	}
	return fn(v)
}

func (n *Node) init() error {
	n.c.tracer.Step(n.Path(), "editor.mount", zap.String("type", string(n.field.Type)))

	switch n.field.Type {
	case model.FieldTypeRecord:
		for _, f := range n.field.Fields {
			if _, err := n.addChild(f, f.Label); err != nil {
				return err
			}
		}
	case model.FieldTypeTuple:
		for i, f := range n.field.Fields {
			if _, err := n.addChild(f, "["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
	case model.FieldTypeVariant:
		if len(n.field.Fields) == 0 {
			return fmt.Errorf("editor: %s: variant without alternatives", n.Path())
		}
		return n.retag(0)
	case model.FieldTypeVector, model.FieldTypeOptional, model.FieldTypeRecursive:
	default:
		n.text, n.err = "", ""
		if n.field.Default == nil {
			return nil
		}
		text, err := idl.FormatValue(n.field.Source, n.field.Default)
		if err != nil {
			return fmt.Errorf("editor: %s: default: %w", n.Path(), err)
		}
		n.text = text
		return n.c.state.Set(n.Path(), n.field.Default)
	}
	return nil
}

func (n *Node) addChild(field model.Field, seg string) (*Node, error) {
	child := &Node{c: n.c, field: field, parent: n, seg: seg, selected: -1}
	n.children = append(n.children, child)
	if err := child.init(); err != nil {
		n.children = n.children[:len(n.children)-1]
		child.destroy(true)
		return nil, err
	}
	return child, nil
}

func (n *Node) retag(index int) error {
	if index == n.selected {
		return nil
	}
	for _, child := range n.children {
		child.destroy(true)
	}
	n.children = nil
	n.selected = index

	alt := n.field.Fields[index]
	n.c.tracer.Step(n.Path(), "editor.retag", zap.String("tag", alt.Label))
	_, err := n.addChild(alt, alt.Label)
	return err
}

// target resolves recursive nodes to their body, deriving it on first use.
func (n *Node) target() (*Node, error) {
	if n.destroyed {
		return nil, ErrDestroyed
	}
	if n.field.Type != model.FieldTypeRecursive {
		return n, nil
	}
	if len(n.children) == 0 {
		body, err := n.field.Expand()
		if err != nil {
			return nil, fmt.Errorf("editor: %s: %w", n.Path(), err)
		}
		n.c.tracer.Step(n.Path(), "editor.expand", zap.String("body", string(body.Type)))
		if _, err := n.addChild(body, ""); err != nil {
			return nil, err
		}
	}
	return n.children[0].target()
}

// resolved follows already expanded recursive bodies without deriving new
// ones.
func (n *Node) resolved() *Node {
	for n.field.Type == model.FieldTypeRecursive && len(n.children) == 1 {
		n = n.children[0]
	}
	return n
}

func (n *Node) setText(raw string) error {
	if n.c.parse.Random && raw == "" {
		n.clearValue()
		n.c.tracer.Step(n.Path(), "editor.clear")
		return nil
	}
	v, err := transcode.Parse(n.field.Source, raw)
	if err != nil {
		return n.fail(err.Error())
	}
	if ok, msg := n.field.Check(v); !ok {
		return n.fail(msg)
	}
	if err := n.c.state.Set(n.Path(), v); err != nil {
		return err
	}
	n.text, n.err = raw, ""
	n.c.tracer.Step(n.Path(), "editor.set")
	return nil
}

func (n *Node) fail(message string) error {
	n.err = message
	fe := &FieldError{Path: n.Path(), Message: message}
	n.c.tracer.Fail(fe.Path, "editor.set", fe)
	return fe
}

// clearValue drops the leaf's input and stored value.
func (n *Node) clearValue() {
	n.text, n.err = "", ""
	n.clearSlot()
}

// clearSlot removes whatever is stored at the node's path. List slots are
// nulled rather than unset so siblings keep their positions.
func (n *Node) clearSlot() {
	path := n.Path()
	if _, ok := n.c.state.Get(path); !ok {
		return
	}
	if i := strings.LastIndexByte(path, '.'); strings.HasPrefix(path[i+1:], "[") {
		_ = n.c.state.Set(path, nil)
		return
	}
	n.c.state.Unset(path)
}

// destroy releases the subtree. Only the top of a destroyed subtree unsets
// its path; descendants live below it.
func (n *Node) destroy(unset bool) {
	if n.destroyed {
		return
	}
	if unset {
		n.c.state.Unset(n.Path())
		n.c.tracer.Step(n.Path(), "editor.destroy")
	}
	for _, child := range n.children {
		child.destroy(false)
	}
	n.children = nil
	n.destroyed = true
}

func (n *Node) collect(errs *ValidationErrors, auto int) (any, error) {
	switch n.field.Type {
	case model.FieldTypeRecord:
		out := make(map[string]any, len(n.children))
		for _, child := range n.children {
			v, err := child.collect(errs, auto)
			if err != nil {
				return nil, err
			}
			out[child.field.Label] = v
		}
		return out, nil
	case model.FieldTypeTuple, model.FieldTypeVector, model.FieldTypeOptional:
		out := make([]any, 0, len(n.children))
		for _, child := range n.children {
			v, err := child.collect(errs, auto)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case model.FieldTypeVariant:
		if len(n.children) == 0 {
			return nil, fmt.Errorf("editor: %s: variant has no active alternative", n.Path())
		}
		active := n.children[0]
		v, err := active.collect(errs, auto)
		if err != nil {
			return nil, err
		}
		return map[string]any{active.field.Label: v}, nil
	case model.FieldTypeRecursive:
		if len(n.children) == 0 {
			auto++
			if auto > n.c.maxAuto {
				return nil, fmt.Errorf("%w: %s at %q", ErrUnbounded, n.field.Source.Name(), n.Path())
			}
			if _, err := n.target(); err != nil {
				return nil, err
			}
		}
		return n.children[0].collect(errs, auto)
	default:
		return n.leafValue(errs), nil
	}
}

func (n *Node) leafValue(errs *ValidationErrors) any {
	path := n.Path()
	if n.err != "" {
		*errs = append(*errs, FieldError{Path: path, Message: n.err})
		return nil
	}
	v, err := transcode.ParseValue(n.field.Source, n.c.parse, n.text)
	if err != nil {
		*errs = append(*errs, FieldError{Path: path, Message: err.Error()})
		return nil
	}
	if ok, msg := n.field.Check(v); !ok {
		*errs = append(*errs, FieldError{Path: path, Message: msg})
		return nil
	}
	if n.c.parse.Random && n.text == "" {
		_ = n.c.state.Set(path, v)
	}
	return v
}
