package idl

import (
	"math/big"

	"github.com/goliatone/go-candidform/pkg/principal"
)

// FuncRef is the value of a func type: a service principal plus a method
// name.
type FuncRef struct {
	Principal principal.Principal
	Method    string
}

func (f FuncRef) String() string {
	return f.Principal.String() + "." + f.Method
}

// MarshalText renders the "principal.method" form.
func (f FuncRef) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// NativeBits is the widest declared integer width represented natively
// (int64) rather than as *big.Int.
const NativeBits = 32

// IsNative reports whether integer values of t use the native int64
// representation. The choice depends on the declared width only.
func IsNative(t NumberType) bool {
	switch t.(type) {
	case *FixedIntType, *FixedNatType:
		return t.Bits() <= NativeBits
	default:
		return false
	}
}

// BigIntOf converts any supported integer representation into a fresh
// *big.Int.
func BigIntOf(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return new(big.Int).Set(n), true
	case int:
		return big.NewInt(int64(n)), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case uint:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	default:
		return nil, false
	}
}

// FixedRange returns the inclusive bounds of a fixed-width integer.
func FixedRange(bits int, signed bool) (lo, hi *big.Int) {
	one := big.NewInt(1)
	if signed {
		half := new(big.Int).Lsh(one, uint(bits-1))
		return new(big.Int).Neg(half), new(big.Int).Sub(half, one)
	}
	return new(big.Int), new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits)), one)
}

// InRange reports whether n fits the numeric type's declared range.
func InRange(t NumberType, n *big.Int) bool {
	switch t.(type) {
	case *IntType:
		return true
	case *NatType:
		return n.Sign() >= 0
	case *FixedIntType, *FixedNatType:
		lo, hi := FixedRange(t.Bits(), t.Signed())
		return n.Cmp(lo) >= 0 && n.Cmp(hi) <= 0
	default:
		return false
	}
}
