package render

import (
	"fmt"
	"strings"
)

// StructuralError reports a value whose shape disagrees with its type. The
// render call that detects it is aborted.
type StructuralError struct {
	Path   string
	Type   string
	Reason string
	Err    error
}

func (e *StructuralError) Error() string {
	var b strings.Builder
	b.WriteString("render: ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Reason)
	if e.Type != "" {
		fmt.Fprintf(&b, " (type %s)", e.Type)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *StructuralError) Unwrap() error { return e.Err }

func mismatch(path, typ, reason string, args ...any) error {
	return &StructuralError{Path: path, Type: typ, Reason: fmt.Sprintf(reason, args...)}
}

// WidgetError wraps a failure reported by the widget handle itself.
type WidgetError struct {
	Path string
	Op   string
	Err  error
}

func (e *WidgetError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("render: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("render: %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *WidgetError) Unwrap() error { return e.Err }

func widgetErr(path, op string, err error) error {
	if err == nil {
		return nil
	}
	return &WidgetError{Path: path, Op: op, Err: err}
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "." + segment
}
