package idl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-candidform/pkg/principal"
)

// FormatValue renders v in the canonical text form of t. Scalars produce the
// exact string the parse pass accepts back (text is returned verbatim);
// composite values render in Candid value syntax with quoted text.
func FormatValue(t Type, v any) (string, error) {
	if err := t.Covariant(v); err != nil {
		return "", err
	}
	if _, ok := t.(*TextType); ok {
		return v.(string), nil
	}
	var b strings.Builder
	if err := writeValue(&b, t, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeValue(b *strings.Builder, t Type, v any) error {
	switch typed := t.(type) {
	case *NullType:
		b.WriteString("null")
	case *BoolType:
		b.WriteString(strconv.FormatBool(v.(bool)))
	case *TextType:
		b.WriteString(strconv.Quote(v.(string)))
	case *IntType, *NatType, *FixedIntType, *FixedNatType:
		n, _ := BigIntOf(v)
		b.WriteString(n.String())
	case *FloatType:
		b.WriteString(formatFloat(v, typed.bits))
	case *PrincipalType, *ServiceType:
		b.WriteString(v.(principal.Principal).String())
	case *FuncType:
		b.WriteString(v.(FuncRef).String())
	case *RecordType:
		m := v.(map[string]any)
		b.WriteString("record {")
		for i, f := range typed.Fields {
			if i > 0 {
				b.WriteString("; ")
			}
			b.WriteString(f.Label)
			b.WriteString(" = ")
			if err := writeValue(b, f.Type, m[f.Label]); err != nil {
				return err
			}
		}
		b.WriteString("}")
	case *VariantType:
		b.WriteString("variant {")
		for label, payload := range v.(map[string]any) {
			b.WriteString(label)
			if _, isNull := typed.Fields[typed.Index(label)].Type.(*NullType); !isNull {
				b.WriteString(" = ")
				if err := writeValue(b, typed.Fields[typed.Index(label)].Type, payload); err != nil {
					return err
				}
			}
		}
		b.WriteString("}")
	case *TupleType:
		list := v.([]any)
		b.WriteString("record {")
		for i, elem := range typed.Elems {
			if i > 0 {
				b.WriteString("; ")
			}
			if err := writeValue(b, elem, list[i]); err != nil {
				return err
			}
		}
		b.WriteString("}")
	case *VectorType:
		b.WriteString("vec {")
		for i, item := range v.([]any) {
			if i > 0 {
				b.WriteString("; ")
			}
			if err := writeValue(b, typed.Elem, item); err != nil {
				return err
			}
		}
		b.WriteString("}")
	case *OptionalType:
		list := v.([]any)
		if len(list) == 0 {
			b.WriteString("null")
			return nil
		}
		b.WriteString("opt ")
		return writeValue(b, typed.Elem, list[0])
	case *RecursiveType:
		body, err := typed.Resolve()
		if err != nil {
			return err
		}
		return writeValue(b, body, v)
	default:
		return fmt.Errorf("idl: cannot format %s", t.Name())
	}
	return nil
}

func formatFloat(v any, bits int) string {
	switch f := v.(type) {
	case float32:
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(f, 'g', -1, bits)
	default:
		return fmt.Sprint(v)
	}
}
