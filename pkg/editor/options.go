package editor

import (
	"github.com/goliatone/go-candidform/pkg/trace"
	"github.com/goliatone/go-candidform/pkg/transcode"
)

// DefaultMaxAutoExpand bounds how many unexpanded recursive bodies a single
// value assembly may derive along one branch.
const DefaultMaxAutoExpand = 16

// Option configures a Composer.
type Option func(*Composer)

// WithState stores values in the supplied container instead of a fresh
// state.Store.
func WithState(s FormState) Option {
	return func(c *Composer) {
		if s != nil {
			c.state = s
		}
	}
}

// WithTracer records mounts, transitions and edits keyed by path.
func WithTracer(tracer *trace.Tracer) Option {
	return func(c *Composer) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithParseConfig sets the selection policy used for leaf input.
func WithParseConfig(cfg transcode.ParseConfig) Option {
	return func(c *Composer) {
		c.parse = cfg
	}
}

// WithRandom toggles random mode: empty leaves are synthesized on submit.
func WithRandom(random bool) Option {
	return func(c *Composer) {
		c.parse.Random = random
	}
}

// WithMaxAutoExpand overrides DefaultMaxAutoExpand.
func WithMaxAutoExpand(n int) Option {
	return func(c *Composer) {
		if n > 0 {
			c.maxAuto = n
		}
	}
}
