// Package trace provides the structured traversal hook shared by the
// extraction, render and editor passes. Tracing is off unless a logger is
// supplied.
package trace

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Tracer records traversal steps keyed by structural path. A nil *Tracer is
// valid and discards everything.
type Tracer struct {
	log *zap.Logger
}

// New wraps logger. A nil logger yields a no-op tracer.
func New(logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracer{log: logger.Named("candidform")}
}

// Nop returns a tracer that discards all steps.
func Nop() *Tracer {
	return &Tracer{log: zap.NewNop()}
}

// Enabled reports whether steps would be written.
func (t *Tracer) Enabled() bool {
	return t != nil && t.log.Core().Enabled(zapcore.DebugLevel)
}

// Step records a traversal step at debug level.
func (t *Tracer) Step(path, op string, fields ...zap.Field) {
	if !t.Enabled() {
		return
	}
	t.log.Debug(op, append([]zap.Field{zap.String("path", path)}, fields...)...)
}

// Fail records a step that produced an error.
func (t *Tracer) Fail(path, op string, err error) {
	if t == nil || err == nil {
		return
	}
	t.log.Warn(op, zap.String("path", path), zap.Error(err))
}

// Logger exposes the underlying logger.
func (t *Tracer) Logger() *zap.Logger {
	if t == nil {
		return zap.NewNop()
	}
	return t.log
}
