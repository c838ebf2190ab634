package editor

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/goliatone/go-candidform/pkg/model"
	"github.com/goliatone/go-candidform/pkg/render"
	"github.com/goliatone/go-candidform/pkg/state"
	"github.com/goliatone/go-candidform/pkg/trace"
	"github.com/goliatone/go-candidform/pkg/transcode"
)

// FormState is the path-addressable container editors write to. The
// composer reads and writes paths but does not own the container.
type FormState interface {
	Get(path string) (any, bool)
	Set(path string, value any) error
	Unset(path string)
	Values() map[string]any
}

var _ FormState = (*state.Store)(nil)

// Composer instantiates descriptors as editor trees within one session.
// It is not safe for concurrent use.
type Composer struct {
	state    FormState
	tracer   *trace.Tracer
	parse    transcode.ParseConfig
	renderer *render.Renderer
	maxAuto  int
	roots    []*Node
}

// New creates a Composer.
func New(opts ...Option) *Composer {
	c := &Composer{
		tracer:  trace.Nop(),
		maxAuto: DefaultMaxAutoExpand,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.state == nil {
		c.state = state.NewStore(nil)
	}
	c.renderer = render.New(render.WithTracer(c.tracer))
	return c
}

// State returns the form-state container.
func (c *Composer) State() FormState { return c.state }

// Random reports whether random mode is on.
func (c *Composer) Random() bool { return c.parse.Random }

// Roots returns the mounted root nodes in mount order.
func (c *Composer) Roots() []*Node {
	return append([]*Node(nil), c.roots...)
}

// Mount instantiates field at path. An empty path uses the field label.
func (c *Composer) Mount(field model.Field, path string) (*Node, error) {
	if path == "" {
		path = field.Label
	}
	if path == "" {
		return nil, errors.New("editor: mount path is required")
	}
	for _, root := range c.roots {
		if root.seg == path {
			return nil, fmt.Errorf("%w: %q", ErrAlreadyMounted, path)
		}
	}
	n := &Node{c: c, field: field, seg: path, selected: -1}
	if err := n.init(); err != nil {
		return nil, err
	}
	c.roots = append(c.roots, n)
	return n, nil
}

// MountMethod mounts one root per argument at method.[i]. A composer
// holds at most one method form, so the composer must have no roots yet.
func (c *Composer) MountMethod(form model.FormModel) ([]*Node, error) {
	if form.Method == "" {
		return nil, errors.New("editor: method name is required")
	}
	if len(c.roots) > 0 {
		return nil, fmt.Errorf("%w: cannot mount method %s over %d existing root(s)", ErrAlreadyMounted, form.Method, len(c.roots))
	}
	nodes := make([]*Node, 0, len(form.Fields))
	for i, field := range form.Fields {
		n, err := c.Mount(field, form.Method+".["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, fmt.Errorf("editor: mount %s argument %d: %w", form.Method, i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Values assembles every root, in mount order, as an argument list.
func (c *Composer) Values() ([]any, error) {
	var errs ValidationErrors
	out := make([]any, 0, len(c.roots))
	for _, root := range c.roots {
		v, err := root.collect(&errs, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// Submit assembles the argument list and hands it to fn. Invalid fields are
// reported as ValidationErrors and fn is not called.
func (c *Composer) Submit(fn func(args []any) error) error {
	args, err := c.Values()
	if err != nil {
		return err
	}
	c.tracer.Step("", "editor.submit")
	if fn == nil {
		return nil
	}
	return fn(args)
}
