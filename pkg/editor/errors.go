package editor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOp is returned when an operation does not apply to the
	// node's kind, such as Append on a record.
	ErrInvalidOp = errors.New("editor: operation not supported by node")
	// ErrAlreadyMounted is returned when a root path is mounted twice, or a
	// method form is mounted on a composer that already holds roots.
	ErrAlreadyMounted = errors.New("editor: already mounted")
	// ErrDestroyed is returned by operations on a node that was removed.
	ErrDestroyed = errors.New("editor: node was destroyed")
	// ErrUnbounded is returned when assembling a value would expand
	// recursive bodies past the configured budget.
	ErrUnbounded = errors.New("editor: recursive value has no finite default")
)

// FieldError is a field-local parse or validation failure.
type FieldError struct {
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("editor: %s: %s", e.Path, e.Message)
}

// ValidationErrors lists every invalid field found while assembling a value,
// in traversal order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "editor: no validation errors"
	}
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Path + ": " + fe.Message
	}
	return fmt.Sprintf("editor: %d invalid field(s): %s", len(v), strings.Join(parts, "; "))
}

// Fields maps each invalid path to its message.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		out[fe.Path] = fe.Message
	}
	return out
}

func invalidOp(n *Node, op string) error {
	return fmt.Errorf("%w: %s on %s node at %q", ErrInvalidOp, op, n.field.Type, n.Path())
}
