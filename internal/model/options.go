package model

import "github.com/goliatone/go-candidform/pkg/trace"

// Options configures the behaviour of the Extractor. Options are constructed
// by the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler func(string) string
	Tracer  *trace.Tracer
}

func defaultOptions() Options {
	return Options{
		Labeler: DefaultLabeler,
		Tracer:  trace.Nop(),
	}
}
