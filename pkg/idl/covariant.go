package idl

import (
	"fmt"
	"math"

	"github.com/goliatone/go-candidform/pkg/principal"
)

func invalid(t Type, v any) error {
	return fmt.Errorf("invalid %s argument: %s", t.Name(), readable(v))
}

func readable(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (t *NullType) Covariant(v any) error {
	if v != nil {
		return invalid(t, v)
	}
	return nil
}

func (t *BoolType) Covariant(v any) error {
	if _, ok := v.(bool); !ok {
		return invalid(t, v)
	}
	return nil
}

func (t *TextType) Covariant(v any) error {
	if _, ok := v.(string); !ok {
		return invalid(t, v)
	}
	return nil
}

func (t *IntType) Covariant(v any) error      { return integerCovariant(t, v) }
func (t *NatType) Covariant(v any) error      { return integerCovariant(t, v) }
func (t *FixedIntType) Covariant(v any) error { return integerCovariant(t, v) }
func (t *FixedNatType) Covariant(v any) error { return integerCovariant(t, v) }

func integerCovariant(t NumberType, v any) error {
	n, ok := BigIntOf(v)
	if !ok || !InRange(t, n) {
		return invalid(t, v)
	}
	return nil
}

func (t *FloatType) Covariant(v any) error {
	switch f := v.(type) {
	case float64:
		// 32-bit values must survive narrowing unchanged
		if t.bits == 32 && !math.IsNaN(f) && float64(float32(f)) != f {
			return invalid(t, v)
		}
		return nil
	case float32:
		return nil
	default:
		return invalid(t, v)
	}
}

func (t *PrincipalType) Covariant(v any) error {
	if _, ok := v.(principal.Principal); !ok {
		return invalid(t, v)
	}
	return nil
}

func (t *ServiceType) Covariant(v any) error {
	if _, ok := v.(principal.Principal); !ok {
		return invalid(t, v)
	}
	return nil
}

func (t *FuncType) Covariant(v any) error {
	ref, ok := v.(FuncRef)
	if !ok || ref.Method == "" {
		return invalid(t, v)
	}
	return nil
}

func (t *RecordType) Covariant(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return invalid(t, v)
	}
	for _, f := range t.Fields {
		fv, present := m[f.Label]
		if !present {
			return fmt.Errorf("record is missing key %q", f.Label)
		}
		if err := f.Type.Covariant(fv); err != nil {
			return fmt.Errorf("%s: %w", f.Label, err)
		}
	}
	return nil
}

func (t *VariantType) Covariant(v any) error {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return invalid(t, v)
	}
	for label, payload := range m {
		idx := t.Index(label)
		if idx < 0 {
			return fmt.Errorf("variant has no alternative %q", label)
		}
		if err := t.Fields[idx].Type.Covariant(payload); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
	}
	return nil
}

func (t *TupleType) Covariant(v any) error {
	list, ok := v.([]any)
	if !ok || len(list) != len(t.Elems) {
		return invalid(t, v)
	}
	for i, elem := range t.Elems {
		if err := elem.Covariant(list[i]); err != nil {
			return fmt.Errorf("%d: %w", i, err)
		}
	}
	return nil
}

func (t *VectorType) Covariant(v any) error {
	list, ok := v.([]any)
	if !ok {
		return invalid(t, v)
	}
	for i, item := range list {
		if err := t.Elem.Covariant(item); err != nil {
			return fmt.Errorf("%d: %w", i, err)
		}
	}
	return nil
}

func (t *OptionalType) Covariant(v any) error {
	list, ok := v.([]any)
	if !ok || len(list) > 1 {
		return invalid(t, v)
	}
	if len(list) == 1 {
		return t.Elem.Covariant(list[0])
	}
	return nil
}
