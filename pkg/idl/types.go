package idl

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the tag of a Type variant.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindText
	KindInt
	KindNat
	KindFloat
	KindFixedInt
	KindFixedNat
	KindPrincipal
	KindService
	KindFunc
	KindRecord
	KindVariant
	KindTuple
	KindVector
	KindOptional
	KindRecursive
)

var kindNames = [...]string{
	KindNull:      "null",
	KindBool:      "bool",
	KindText:      "text",
	KindInt:       "int",
	KindNat:       "nat",
	KindFloat:     "float",
	KindFixedInt:  "fixed_int",
	KindFixedNat:  "fixed_nat",
	KindPrincipal: "principal",
	KindService:   "service",
	KindFunc:      "func",
	KindRecord:    "record",
	KindVariant:   "variant",
	KindTuple:     "tuple",
	KindVector:    "vector",
	KindOptional:  "optional",
	KindRecursive: "recursive",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Type is implemented by every Candid type variant.
type Type interface {
	Kind() Kind
	// Name is the human readable type expression, also used as the default
	// label for descriptors.
	Name() string
	// Covariant returns nil when v is a valid value of the type.
	Covariant(v any) error
}

// NumberType is the common view of the numeric family. Bits is zero for the
// unbounded Int and Nat.
type NumberType interface {
	Type
	Bits() int
	Signed() bool
}

// Member is a labelled component of a record or variant.
type Member struct {
	Label string
	Type  Type
}

// Field builds a record or variant member.
func Field(label string, t Type) Member {
	return Member{Label: label, Type: t}
}

// Method is a named service entry.
type Method struct {
	Name string
	Func *FuncType
}

type (
	NullType      struct{}
	BoolType      struct{}
	TextType      struct{}
	IntType       struct{}
	NatType       struct{}
	PrincipalType struct{}
)

// FloatType is float32 or float64.
type FloatType struct{ bits int }

// FixedIntType is a signed integer of a declared bit width.
type FixedIntType struct{ bits int }

// FixedNatType is an unsigned integer of a declared bit width.
type FixedNatType struct{ bits int }

// FuncType is a function reference type.
type FuncType struct {
	Args        []Type
	Rets        []Type
	Annotations []string
}

// ServiceType is a service (actor) reference type.
type ServiceType struct {
	Methods []Method
}

// RecordType holds labelled fields in declaration order.
type RecordType struct {
	Fields []Member
}

// VariantType holds labelled alternatives in declaration order.
type VariantType struct {
	Fields []Member
}

// TupleType is a record with positional labels 0..n-1.
type TupleType struct {
	Elems []Type
}

// VectorType is a homogeneous sequence.
type VectorType struct {
	Elem Type
}

// OptionalType is a value that may be absent. Values are lists of length 0
// or 1.
type OptionalType struct {
	Elem Type
}

// Primitive singletons.
var (
	Null      = &NullType{}
	Bool      = &BoolType{}
	Text      = &TextType{}
	Int       = &IntType{}
	Nat       = &NatType{}
	Principal = &PrincipalType{}
	Float32   = &FloatType{bits: 32}
	Float64   = &FloatType{bits: 64}
	Int8      = FixedInt(8)
	Int16     = FixedInt(16)
	Int32     = FixedInt(32)
	Int64     = FixedInt(64)
	Nat8      = FixedNat(8)
	Nat16     = FixedNat(16)
	Nat32     = FixedNat(32)
	Nat64     = FixedNat(64)
)

// MaxFixedBits bounds the width accepted for fixed-size integers.
const MaxFixedBits = 256

// NewFixedInt returns a signed integer type of the given width.
func NewFixedInt(bits int) (*FixedIntType, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	return &FixedIntType{bits: bits}, nil
}

// NewFixedNat returns an unsigned integer type of the given width.
func NewFixedNat(bits int) (*FixedNatType, error) {
	if err := checkBits(bits); err != nil {
		return nil, err
	}
	return &FixedNatType{bits: bits}, nil
}

// FixedInt is NewFixedInt for literals; it panics on an invalid width.
func FixedInt(bits int) *FixedIntType {
	t, err := NewFixedInt(bits)
	if err != nil {
		panic(err)
	}
	return t
}

// FixedNat is NewFixedNat for literals; it panics on an invalid width.
func FixedNat(bits int) *FixedNatType {
	t, err := NewFixedNat(bits)
	if err != nil {
		panic(err)
	}
	return t
}

func checkBits(bits int) error {
	if bits < 1 || bits > MaxFixedBits {
		return fmt.Errorf("idl: fixed width %d out of range 1..%d", bits, MaxFixedBits)
	}
	return nil
}

// NewRecord validates label uniqueness.
func NewRecord(fields ...Member) (*RecordType, error) {
	if err := checkMembers("record", fields); err != nil {
		return nil, err
	}
	return &RecordType{Fields: append([]Member(nil), fields...)}, nil
}

// Record is NewRecord for literals.
func Record(fields ...Member) *RecordType {
	t, err := NewRecord(fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// NewVariant validates label uniqueness and requires at least one
// alternative.
func NewVariant(fields ...Member) (*VariantType, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("idl: variant requires at least one alternative")
	}
	if err := checkMembers("variant", fields); err != nil {
		return nil, err
	}
	return &VariantType{Fields: append([]Member(nil), fields...)}, nil
}

// Variant is NewVariant for literals.
func Variant(fields ...Member) *VariantType {
	t, err := NewVariant(fields...)
	if err != nil {
		panic(err)
	}
	return t
}

func checkMembers(kind string, fields []Member) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f.Label) == "" {
			return fmt.Errorf("idl: %s field label is empty", kind)
		}
		if f.Type == nil {
			return fmt.Errorf("idl: %s field %q has no type", kind, f.Label)
		}
		if _, dup := seen[f.Label]; dup {
			return fmt.Errorf("idl: duplicate %s label %q", kind, f.Label)
		}
		seen[f.Label] = struct{}{}
	}
	return nil
}

// Tuple builds a positional record.
func Tuple(elems ...Type) *TupleType {
	return &TupleType{Elems: append([]Type(nil), elems...)}
}

// Vec builds a vector type.
func Vec(elem Type) *VectorType {
	return &VectorType{Elem: elem}
}

// Opt builds an optional type.
func Opt(elem Type) *OptionalType {
	return &OptionalType{Elem: elem}
}

// Func builds a function reference type.
func Func(args, rets []Type, annotations ...string) *FuncType {
	return &FuncType{
		Args:        append([]Type(nil), args...),
		Rets:        append([]Type(nil), rets...),
		Annotations: append([]string(nil), annotations...),
	}
}

// Service builds a service reference type.
func Service(methods ...Method) *ServiceType {
	return &ServiceType{Methods: append([]Method(nil), methods...)}
}

// Members returns the tuple elements with their positional labels.
func (t *TupleType) Members() []Member {
	out := make([]Member, len(t.Elems))
	for i, elem := range t.Elems {
		out[i] = Member{Label: strconv.Itoa(i), Type: elem}
	}
	return out
}

// Index returns the position of label, or -1.
func (t *VariantType) Index(label string) int {
	for i, f := range t.Fields {
		if f.Label == label {
			return i
		}
	}
	return -1
}

// Method looks up a service method by name.
func (t *ServiceType) Method(name string) (*FuncType, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m.Func, true
		}
	}
	return nil, false
}

func (*NullType) Kind() Kind      { return KindNull }
func (*BoolType) Kind() Kind      { return KindBool }
func (*TextType) Kind() Kind      { return KindText }
func (*IntType) Kind() Kind       { return KindInt }
func (*NatType) Kind() Kind       { return KindNat }
func (*FloatType) Kind() Kind     { return KindFloat }
func (*FixedIntType) Kind() Kind  { return KindFixedInt }
func (*FixedNatType) Kind() Kind  { return KindFixedNat }
func (*PrincipalType) Kind() Kind { return KindPrincipal }
func (*ServiceType) Kind() Kind   { return KindService }
func (*FuncType) Kind() Kind      { return KindFunc }
func (*RecordType) Kind() Kind    { return KindRecord }
func (*VariantType) Kind() Kind   { return KindVariant }
func (*TupleType) Kind() Kind     { return KindTuple }
func (*VectorType) Kind() Kind    { return KindVector }
func (*OptionalType) Kind() Kind  { return KindOptional }

func (*NullType) Name() string       { return "null" }
func (*BoolType) Name() string       { return "bool" }
func (*TextType) Name() string       { return "text" }
func (*IntType) Name() string        { return "int" }
func (*NatType) Name() string        { return "nat" }
func (t *FloatType) Name() string    { return "float" + strconv.Itoa(t.bits) }
func (t *FixedIntType) Name() string { return "int" + strconv.Itoa(t.bits) }
func (t *FixedNatType) Name() string { return "nat" + strconv.Itoa(t.bits) }
func (*PrincipalType) Name() string  { return "principal" }

func (t *ServiceType) Name() string {
	parts := make([]string, len(t.Methods))
	for i, m := range t.Methods {
		parts[i] = m.Name + ": " + m.Func.signature()
	}
	return "service {" + strings.Join(parts, "; ") + "}"
}

func (t *FuncType) Name() string {
	return "func " + t.signature()
}

func (t *FuncType) signature() string {
	sig := "(" + joinNames(t.Args) + ") -> (" + joinNames(t.Rets) + ")"
	if len(t.Annotations) > 0 {
		sig += " " + strings.Join(t.Annotations, " ")
	}
	return sig
}

func (t *RecordType) Name() string {
	return "record {" + joinMembers(t.Fields, ":") + "}"
}

func (t *VariantType) Name() string {
	return "variant {" + joinMembers(t.Fields, ":") + "}"
}

func (t *TupleType) Name() string {
	return "record {" + strings.Join(names(t.Elems), "; ") + "}"
}

func (t *VectorType) Name() string   { return "vec " + t.Elem.Name() }
func (t *OptionalType) Name() string { return "opt " + t.Elem.Name() }

func (*IntType) Bits() int        { return 0 }
func (*NatType) Bits() int        { return 0 }
func (t *FloatType) Bits() int    { return t.bits }
func (t *FixedIntType) Bits() int { return t.bits }
func (t *FixedNatType) Bits() int { return t.bits }

func (*IntType) Signed() bool      { return true }
func (*NatType) Signed() bool      { return false }
func (*FloatType) Signed() bool    { return true }
func (*FixedIntType) Signed() bool { return true }
func (*FixedNatType) Signed() bool { return false }

func names(types []Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Name()
	}
	return out
}

func joinNames(types []Type) string {
	return strings.Join(names(types), ", ")
}

func joinMembers(fields []Member, sep string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Label + sep + f.Type.Name()
	}
	return strings.Join(parts, "; ")
}
