package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-candidform/pkg/editor"
	"github.com/goliatone/go-candidform/pkg/model"
	"github.com/goliatone/go-candidform/pkg/trace"
	"github.com/goliatone/go-candidform/pkg/typedoc"
	"github.com/goliatone/go-candidform/pkg/widgets"
)

// Loader resolves a source reference into a type document.
type Loader interface {
	Load(ctx context.Context, source string) (*typedoc.Document, error)
}

// LoaderFunc adapts plain functions to the Loader interface.
type LoaderFunc func(ctx context.Context, source string) (*typedoc.Document, error)

// Load executes the wrapped function.
func (fn LoaderFunc) Load(ctx context.Context, source string) (*typedoc.Document, error) {
	return fn(ctx, source)
}

// FileLoader reads documents from disk with typedoc.LoadFile.
var FileLoader = LoaderFunc(func(ctx context.Context, source string) (*typedoc.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return typedoc.LoadFile(source)
})

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithExtractor injects a custom descriptor extractor.
func WithExtractor(extractor model.Extractor) Option {
	return func(o *Orchestrator) {
		o.extractor = extractor
	}
}

// WithWidgetRegistry replaces the registry that assigns widget hints. Pass
// nil to skip widget decoration.
func WithWidgetRegistry(reg *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = reg
		o.widgetsSpecified = true
	}
}

// WithTransformer registers a Transformer that can mutate form models after
// extraction but before decorators run.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators registers decorators that run against every extracted form
// model, after the widget registry.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithComposerOptions forwards options to every composer the orchestrator
// creates.
func WithComposerOptions(opts ...editor.Option) Option {
	return func(o *Orchestrator) {
		o.composerOptions = append(o.composerOptions, opts...)
	}
}

// WithTracer shares one tracer between the default extractor and composers.
func WithTracer(tracer *trace.Tracer) Option {
	return func(o *Orchestrator) {
		o.tracer = tracer
	}
}

// Orchestrator coordinates the pipeline from a type document to a mounted
// editor session. Missing dependencies are initialised with the built-in
// implementations.
type Orchestrator struct {
	loader           Loader
	extractor        model.Extractor
	widgets          *widgets.Registry
	widgetsSpecified bool
	transformer      Transformer
	decorators       []model.Decorator
	composerOptions  []editor.Option
	tracer           *trace.Tracer
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs for one method session.
type Request struct {
	// Source identifies where the document lives. Optional when Document is
	// supplied.
	Source string

	// Document allows callers to bypass the loader.
	Document *typedoc.Document

	// Method selects the service method whose arguments are edited.
	Method string

	// Prefill holds initial argument values, rendered into the editors in
	// order. It may be shorter than the argument list.
	Prefill []any
}

// Session is a mounted method form.
type Session struct {
	Document *typedoc.Document
	Form     model.FormModel
	Composer *editor.Composer
	Args     []*editor.Node
}

// Values assembles the argument list.
func (s *Session) Values() ([]any, error) {
	return s.Composer.Values()
}

// Submit assembles the argument list and hands it to fn.
func (s *Session) Submit(fn func(args []any) error) error {
	return s.Composer.Submit(fn)
}

// Forms extracts, transforms and decorates a form per method, in
// declaration order.
func (o *Orchestrator) Forms(ctx context.Context, req Request) ([]model.FormModel, error) {
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	forms := make([]model.FormModel, 0, len(doc.Methods))
	for _, m := range doc.Methods {
		form, err := o.form(ctx, m)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, nil
}

// Prepare builds the form for req.Method and mounts one editor per argument
// on a fresh composer.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (*Session, error) {
	if req.Method == "" {
		return nil, errors.New("orchestrator: method is required")
	}
	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	method, ok := doc.Method(req.Method)
	if !ok {
		return nil, fmt.Errorf("orchestrator: method %q not found in service %q", req.Method, doc.Service)
	}

	form, err := o.form(ctx, method)
	if err != nil {
		return nil, err
	}
	if len(req.Prefill) > len(form.Fields) {
		return nil, fmt.Errorf("orchestrator: %d prefill values for %d arguments", len(req.Prefill), len(form.Fields))
	}

	opts := append([]editor.Option{editor.WithTracer(o.tracer)}, o.composerOptions...)
	composer := editor.New(opts...)
	args, err := composer.MountMethod(form)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: mount: %w", err)
	}
	for i, v := range req.Prefill {
		if err := args[i].SetValue(v); err != nil {
			return nil, fmt.Errorf("orchestrator: prefill argument %d: %w", i, err)
		}
	}

	return &Session{Document: doc, Form: form, Composer: composer, Args: args}, nil
}

func (o *Orchestrator) form(ctx context.Context, m typedoc.Method) (model.FormModel, error) {
	form, err := o.extractor.ExtractMethod(m.Name, m.Func)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: extract %s: %w", m.Name, err)
	}
	form.Description = m.Description

	if err := o.applyTransformer(ctx, &form); err != nil {
		return model.FormModel{}, err
	}
	if err := o.applyDecorators(&form); err != nil {
		return model.FormModel{}, err
	}
	return form, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (*typedoc.Document, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Document != nil {
		return req.Document, nil
	}
	if req.Source == "" {
		return nil, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) applyDecorators(form *model.FormModel) error {
	if form == nil {
		return nil
	}
	if o.widgets != nil {
		if err := o.widgets.Decorate(form); err != nil {
			return fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(form); err != nil {
			return fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.FormModel) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.tracer == nil {
		o.tracer = trace.Nop()
	}
	if o.loader == nil {
		o.loader = FileLoader
	}
	if o.extractor == nil {
		o.extractor = model.NewExtractor(model.WithTracer(o.tracer))
	}
	if o.widgets == nil && !o.widgetsSpecified {
		o.widgets = widgets.NewRegistry()
	}
}
