package model

import "github.com/goliatone/go-candidform/pkg/idl"

// FieldType is the editor-facing kind of a descriptor.
type FieldType string

const (
	FieldTypeText      FieldType = "text"
	FieldTypeNumber    FieldType = "number"
	FieldTypeCheckbox  FieldType = "checkbox"
	FieldTypeNull      FieldType = "null"
	FieldTypeRecord    FieldType = "record"
	FieldTypeTuple     FieldType = "tuple"
	FieldTypeVariant   FieldType = "variant"
	FieldTypeVector    FieldType = "vector"
	FieldTypeOptional  FieldType = "optional"
	FieldTypeRecursive FieldType = "recursive"
	FieldTypePrincipal FieldType = "principal"
)

// Component hints the element an editor would use for the descriptor.
type Component string

const (
	ComponentInput    Component = "input"
	ComponentSpan     Component = "span"
	ComponentFieldset Component = "fieldset"
)

// Validator reports whether a candidate value is accepted. On rejection the
// second result carries the message of the underlying predicate. Validators
// never panic.
type Validator func(value any) (bool, string)

// Field is the structural descriptor derived from a type. It is independent
// of any concrete editor; editors instantiate it node by node. Func-valued
// members are skipped when serialising so descriptors can be snapshotted.
type Field struct {
	Label     string    `json:"label"`
	Display   string    `json:"display,omitempty"`
	Type      FieldType `json:"type"`
	Component Component `json:"component"`
	Required  bool      `json:"required"`
	Bits      int       `json:"bits,omitempty"`
	Options   []string  `json:"options,omitempty"`
	Default   any       `json:"default,omitempty"`
	Fields    []Field   `json:"fields,omitempty"`
	Widget    string    `json:"widget,omitempty"`

	Validate Validator             `json:"-"`
	Extract  func() (Field, error) `json:"-"`
	Source   idl.Type              `json:"-"`
}

// FormModel groups the argument descriptors of one service method. Argument
// fields are labelled by position.
type FormModel struct {
	Method      string   `json:"method"`
	Signature   string   `json:"signature"`
	Query       bool     `json:"query,omitempty"`
	Description string   `json:"description,omitempty"`
	Fields      []Field  `json:"fields"`
	Defaults    []any    `json:"defaults"`
	Annotations []string `json:"annotations,omitempty"`
}

// IsLeaf reports whether the descriptor edits a scalar directly.
func (f Field) IsLeaf() bool {
	switch f.Type {
	case FieldTypeRecord, FieldTypeTuple, FieldTypeVariant, FieldTypeVector,
		FieldTypeOptional, FieldTypeRecursive:
		return false
	default:
		return true
	}
}

// Check runs the validator, accepting everything when none is set.
func (f Field) Check(value any) (bool, string) {
	if f.Validate == nil {
		return true, ""
	}
	return f.Validate(value)
}

// Child returns the direct child with the given label.
func (f Field) Child(label string) (Field, bool) {
	for _, child := range f.Fields {
		if child.Label == label {
			return child, true
		}
	}
	return Field{}, false
}

// Option returns the variant alternative at index i.
func (f Field) Option(i int) (Field, bool) {
	if f.Type != FieldTypeVariant || i < 0 || i >= len(f.Fields) {
		return Field{}, false
	}
	return f.Fields[i], true
}

// Expand produces a fresh descriptor for the body of a recursive field. Each
// call re-derives the body; results are never shared between callers.
func (f Field) Expand() (Field, error) {
	if f.Type != FieldTypeRecursive || f.Extract == nil {
		return Field{}, errNotRecursive
	}
	return f.Extract()
}
