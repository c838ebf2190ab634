package idl

import (
	"errors"
	"fmt"
)

// ErrNotVisited is returned by Accept when the visitor has no case for the
// type and no applicable fallback.
var ErrNotVisited = errors.New("idl: type not handled by visitor")

// Visitor is a dispatch table with one optional case per type variant. A nil
// case falls back along the chain
//
//	Int, Nat, Float, FixedInt, FixedNat -> Number -> Primitive -> Type
//	Null, Bool, Text, Principal         -> Primitive -> Type
//	Service, Func, Record, Variant,
//	Tuple, Vector, Optional, Recursive  -> Construct -> Type
//
// so a narrow visitor only fills what it needs. C is the per-call context
// and R the result.
type Visitor[C, R any] struct {
	Type      func(t Type, c C) (R, error)
	Primitive func(t Type, c C) (R, error)
	Construct func(t Type, c C) (R, error)
	Number    func(t NumberType, c C) (R, error)

	Null      func(t *NullType, c C) (R, error)
	Bool      func(t *BoolType, c C) (R, error)
	Text      func(t *TextType, c C) (R, error)
	Int       func(t *IntType, c C) (R, error)
	Nat       func(t *NatType, c C) (R, error)
	Float     func(t *FloatType, c C) (R, error)
	FixedInt  func(t *FixedIntType, c C) (R, error)
	FixedNat  func(t *FixedNatType, c C) (R, error)
	Principal func(t *PrincipalType, c C) (R, error)
	Service   func(t *ServiceType, c C) (R, error)
	Func      func(t *FuncType, c C) (R, error)
	Record    func(t *RecordType, c C) (R, error)
	Variant   func(t *VariantType, c C) (R, error)
	Tuple     func(t *TupleType, c C) (R, error)
	Vector    func(t *VectorType, c C) (R, error)
	Optional  func(t *OptionalType, c C) (R, error)
	Recursive func(t *RecursiveType, c C) (R, error)
}

// Accept dispatches t to the matching case of v.
func Accept[C, R any](t Type, v *Visitor[C, R], c C) (R, error) {
	switch typed := t.(type) {
	case *NullType:
		if v.Null != nil {
			return v.Null(typed, c)
		}
		return v.primitive(t, c)
	case *BoolType:
		if v.Bool != nil {
			return v.Bool(typed, c)
		}
		return v.primitive(t, c)
	case *TextType:
		if v.Text != nil {
			return v.Text(typed, c)
		}
		return v.primitive(t, c)
	case *IntType:
		if v.Int != nil {
			return v.Int(typed, c)
		}
		return v.number(typed, c)
	case *NatType:
		if v.Nat != nil {
			return v.Nat(typed, c)
		}
		return v.number(typed, c)
	case *FloatType:
		if v.Float != nil {
			return v.Float(typed, c)
		}
		return v.number(typed, c)
	case *FixedIntType:
		if v.FixedInt != nil {
			return v.FixedInt(typed, c)
		}
		return v.number(typed, c)
	case *FixedNatType:
		if v.FixedNat != nil {
			return v.FixedNat(typed, c)
		}
		return v.number(typed, c)
	case *PrincipalType:
		if v.Principal != nil {
			return v.Principal(typed, c)
		}
		return v.primitive(t, c)
	case *ServiceType:
		if v.Service != nil {
			return v.Service(typed, c)
		}
		return v.construct(t, c)
	case *FuncType:
		if v.Func != nil {
			return v.Func(typed, c)
		}
		return v.construct(t, c)
	case *RecordType:
		if v.Record != nil {
			return v.Record(typed, c)
		}
		return v.construct(t, c)
	case *VariantType:
		if v.Variant != nil {
			return v.Variant(typed, c)
		}
		return v.construct(t, c)
	case *TupleType:
		if v.Tuple != nil {
			return v.Tuple(typed, c)
		}
		return v.construct(t, c)
	case *VectorType:
		if v.Vector != nil {
			return v.Vector(typed, c)
		}
		return v.construct(t, c)
	case *OptionalType:
		if v.Optional != nil {
			return v.Optional(typed, c)
		}
		return v.construct(t, c)
	case *RecursiveType:
		if v.Recursive != nil {
			return v.Recursive(typed, c)
		}
		return v.construct(t, c)
	case nil:
		var zero R
		return zero, errors.New("idl: nil type")
	default:
		var zero R
		return zero, fmt.Errorf("idl: unknown type variant %T", t)
	}
}

func (v *Visitor[C, R]) number(t NumberType, c C) (R, error) {
	if v.Number != nil {
		return v.Number(t, c)
	}
	return v.primitive(t, c)
}

func (v *Visitor[C, R]) primitive(t Type, c C) (R, error) {
	if v.Primitive != nil {
		return v.Primitive(t, c)
	}
	return v.fallback(t, c)
}

func (v *Visitor[C, R]) construct(t Type, c C) (R, error) {
	if v.Construct != nil {
		return v.Construct(t, c)
	}
	return v.fallback(t, c)
}

func (v *Visitor[C, R]) fallback(t Type, c C) (R, error) {
	if v.Type != nil {
		return v.Type(t, c)
	}
	var zero R
	return zero, fmt.Errorf("%w: %s", ErrNotVisited, t.Name())
}
