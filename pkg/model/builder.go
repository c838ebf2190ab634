package model

import (
	"github.com/goliatone/go-candidform/internal/model"
	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/trace"
)

// Extractor converts types into field descriptors.
type Extractor interface {
	Extract(t idl.Type, label string) (Field, error)
	ExtractMethod(name string, fn *idl.FuncType) (FormModel, error)
	ExtractService(svc *idl.ServiceType) ([]FormModel, error)
}

// ExtractorOption configures the extractor behaviour.
type ExtractorOption func(*extractorOptions)

type extractorOptions struct {
	labeler func(string) string
	tracer  *trace.Tracer
}

// WithLabeler overrides the default display label function.
func WithLabeler(labeler func(string) string) ExtractorOption {
	return func(opts *extractorOptions) {
		opts.labeler = labeler
	}
}

// WithTracer records every extraction step.
func WithTracer(tracer *trace.Tracer) ExtractorOption {
	return func(opts *extractorOptions) {
		opts.tracer = tracer
	}
}

// NewExtractor returns an Extractor backed by the internal implementation.
func NewExtractor(options ...ExtractorOption) Extractor {
	cfg := extractorOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	return model.New(model.Options{
		Labeler: cfg.labeler,
		Tracer:  cfg.tracer,
	})
}

// ExtractField is a convenience for a one-off extraction with defaults.
func ExtractField(t idl.Type, label string) (Field, error) {
	return NewExtractor().Extract(t, label)
}
