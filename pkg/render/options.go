package render

import "github.com/goliatone/go-candidform/pkg/trace"

// Option configures a Renderer.
type Option func(*Renderer)

// WithTracer records each render step keyed by structural path.
func WithTracer(tracer *trace.Tracer) Option {
	return func(r *Renderer) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}
