package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-candidform/pkg/editor"
	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/model"
	"github.com/goliatone/go-candidform/pkg/trace"
	"github.com/goliatone/go-candidform/pkg/widgets"
)

// Renderer drives an editor tree from terminal prompts. Each node is
// prompted according to the widget the registry resolves for its field.
type Renderer struct {
	driver   PromptDriver
	widgets  *widgets.Registry
	theme    Theme
	maxDepth int
	tracer   *trace.Tracer
}

// New constructs a TUI renderer with defaults (survey driver, built-in
// widget registry).
func New(options ...Option) *Renderer {
	r := &Renderer{
		maxDepth: DefaultMaxDepth,
		tracer:   trace.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.widgets == nil {
		r.widgets = widgets.NewRegistry()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Announce prints the method header before its arguments are prompted.
func (r *Renderer) Announce(ctx context.Context, form model.FormModel) error {
	kind := "update"
	if form.Query {
		kind = "query"
	}
	if err := r.info(ctx, fmt.Sprintf("%s (%s) %s", form.Method, kind, form.Signature)); err != nil {
		return err
	}
	if form.Description != "" {
		return r.info(ctx, form.Description)
	}
	return nil
}

// Run fills every root of the composer and returns the assembled argument
// list. Invalid fields are reported and prompted again while the user
// agrees to fix them.
func (r *Renderer) Run(ctx context.Context, c *editor.Composer) ([]any, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if c == nil {
		return nil, errors.New("tui: composer is required")
	}
	for {
		for _, root := range c.Roots() {
			if err := r.Fill(ctx, root); err != nil {
				return nil, err
			}
		}

		args, err := c.Values()
		if err == nil {
			return args, nil
		}
		var invalid editor.ValidationErrors
		if !errors.As(err, &invalid) {
			return nil, err
		}
		for _, fe := range invalid {
			_ = r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s: %s", fe.Path, fe.Message))
		}
		retry, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Fix invalid fields?", Default: true})
		if err != nil {
			return nil, err
		}
		if !retry {
			return nil, invalid
		}
	}
}

// Fill prompts for every editable element below n.
func (r *Renderer) Fill(ctx context.Context, n *editor.Node) error {
	if ctx == nil {
		return errors.New("tui: context is required")
	}
	if r.driver == nil {
		return errors.New("tui: prompt driver is nil")
	}
	return r.walk(ctx, n, n.Field().Display, 0)
}

func (r *Renderer) walk(ctx context.Context, n *editor.Node, label string, depth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	field := n.Field()
	widget, _ := r.widgets.Resolve(field)
	r.tracer.Step(n.Path(), "tui.prompt", zap.String("widget", widget))

	switch field.Type {
	case model.FieldTypeRecursive:
		if depth >= r.maxDepth {
			return fmt.Errorf("%w at %s", ErrTooDeep, n.Path())
		}
		body, err := n.Expand()
		if err != nil {
			return err
		}
		return r.walk(ctx, body, label, depth+1)
	case model.FieldTypeRecord, model.FieldTypeTuple:
		for _, child := range n.Children() {
			if err := r.walk(ctx, child, child.Field().Display, depth); err != nil {
				return err
			}
		}
		return nil
	case model.FieldTypeVariant:
		return r.promptVariant(ctx, n, label, depth)
	case model.FieldTypeOptional:
		return r.promptOptional(ctx, n, label, depth)
	case model.FieldTypeVector:
		return r.promptVector(ctx, n, label, depth)
	}

	switch widget {
	case widgets.WidgetCheckbox:
		return r.promptCheckbox(ctx, n, label)
	case widgets.WidgetLabel:
		return r.info(ctx, fmt.Sprintf("%s: null", label))
	default:
		return r.promptInput(ctx, n, label, widget)
	}
}

func (r *Renderer) promptInput(ctx context.Context, n *editor.Node, label, widget string) error {
	help := inputHelp(n.Field(), widget)
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: r.message(label),
			Default: n.Text(),
			Help:    help,
		})
		if err != nil {
			return err
		}
		if err := n.SetText(response); err != nil {
			var fe *editor.FieldError
			if !errors.As(err, &fe) {
				return err
			}
			_ = r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s: %s", fe.Path, fe.Message))
			continue
		}
		return nil
	}
}

func (r *Renderer) promptCheckbox(ctx context.Context, n *editor.Node, label string) error {
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: r.message(label),
		Default: n.Text() == "true",
	})
	if err != nil {
		return err
	}
	return n.SetText(strconv.FormatBool(resp))
}

func (r *Renderer) promptVariant(ctx context.Context, n *editor.Node, label string, depth int) error {
	options := n.Field().Options
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      r.message(label),
			Options:      options,
			DefaultIndex: indexOf(options, n.Selected()),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			_ = r.info(ctx, r.theme.ErrorPrefix+fmt.Sprintf("Invalid %s selection", n.Path()))
			continue
		}
		if err := n.Select(idx); err != nil {
			return err
		}
		break
	}
	active, err := n.ChildNode(0)
	if err != nil {
		return err
	}
	return r.walk(ctx, active, active.Field().Display, depth)
}

func (r *Renderer) promptOptional(ctx context.Context, n *editor.Node, label string, depth int) error {
	enabled, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: r.message(fmt.Sprintf("Provide %s?", label)),
		Default: n.Enabled(),
	})
	if err != nil {
		return err
	}
	if err := n.OnExpand(enabled); err != nil {
		return err
	}
	if !enabled {
		return nil
	}
	item, err := n.ChildNode(0)
	if err != nil {
		return err
	}
	return r.walk(ctx, item, label, depth)
}

func (r *Renderer) promptVector(ctx context.Context, n *editor.Node, label string, depth int) error {
	for i, item := range n.Children() {
		if err := r.walk(ctx, item, itemLabel(label, i), depth); err != nil {
			return err
		}
	}

	message := fmt.Sprintf("Add an item to %s?", label)
	for {
		more, err := r.driver.Confirm(ctx, ConfirmConfig{Message: r.message(message), Default: false})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		item, err := n.Append()
		if err != nil {
			return err
		}
		if err := r.walk(ctx, item, itemLabel(label, n.Len()-1), depth); err != nil {
			return err
		}
		message = "Add another?"
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) message(label string) string {
	return r.theme.PromptPrefix + label
}

func itemLabel(label string, index int) string {
	return fmt.Sprintf("%s [%d]", label, index)
}

func inputHelp(field model.Field, widget string) string {
	name := ""
	if field.Source != nil {
		name = field.Source.Name()
	}
	switch widget {
	case widgets.WidgetPrincipal:
		return "principal in text form, e.g. aaaaa-aa"
	case widgets.WidgetBigNumber:
		return name + ", arbitrary precision"
	case widgets.WidgetNumber:
		if _, float := field.Source.(*idl.FloatType); float {
			return name
		}
		if nt, ok := field.Source.(idl.NumberType); ok && nt.Bits() > 0 {
			lo, hi := idl.FixedRange(nt.Bits(), nt.Signed())
			return fmt.Sprintf("%s, %s..%s", name, lo, hi)
		}
		return name
	default:
		if _, ok := field.Source.(*idl.FuncType); ok {
			return name + ", as <principal>.<method>"
		}
		return name
	}
}
