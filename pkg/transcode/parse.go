package transcode

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/principal"
)

// ErrNotParsable is returned when a composite type is parsed from flat text.
var ErrNotParsable = errors.New("transcode: type has no flat text form")

var parser *idl.Visitor[string, any]

func init() {
	parser = &idl.Visitor[string, any]{
		Null:      func(*idl.NullType, string) (any, error) { return nil, nil },
		Bool:      parseBool,
		Text:      func(_ *idl.TextType, text string) (any, error) { return text, nil },
		Number:    parseNumber,
		Principal: func(_ *idl.PrincipalType, text string) (any, error) { return parsePrincipal(text) },
		Service:   func(_ *idl.ServiceType, text string) (any, error) { return parsePrincipal(text) },
		Func:      parseFunc,
		Recursive: func(t *idl.RecursiveType, text string) (any, error) {
			body, err := t.Resolve()
			if err != nil {
				return nil, err
			}
			return idl.Accept(body, parser, text)
		},
		Construct: func(t idl.Type, _ string) (any, error) {
			return nil, fmt.Errorf("%w: %s", ErrNotParsable, t.Name())
		},
	}
}

// Parse converts raw text into the generic value of t. Fixed-width integers
// up to 32 bits yield int64, wider and unbounded integers yield *big.Int.
func Parse(t idl.Type, text string) (any, error) {
	if t == nil {
		return nil, errors.New("transcode: type is required")
	}
	return idl.Accept(t, parser, text)
}

func parseBool(_ *idl.BoolType, text string) (any, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return nil, fmt.Errorf("Cannot parse `%s` as boolean", text)
	}
}

func parseNumber(t idl.NumberType, text string) (any, error) {
	raw := strings.TrimSpace(text)

	if _, ok := t.(*idl.FloatType); ok {
		f, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("transcode: cannot parse %q as %s", text, t.Name())
		}
		return f, nil
	}

	if idl.IsNative(t) {
		if t.Signed() {
			n, err := strconv.ParseInt(raw, 10, t.Bits())
			if err != nil {
				return nil, numberError(t, text, err)
			}
			return n, nil
		}
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			if b, ok := new(big.Int).SetString(raw, 10); ok && idl.InRange(t, b) {
				return b.Int64(), nil
			}
			return nil, numberError(t, text, err)
		}
		return int64(n), nil
	}

	n, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("transcode: cannot parse %q as %s", text, t.Name())
	}
	if !idl.InRange(t, n) {
		return nil, fmt.Errorf("transcode: %s is out of range for %s", raw, t.Name())
	}
	return n, nil
}

func numberError(t idl.NumberType, text string, err error) error {
	// a well-formed integer rejected by strconv (e.g. "-1" for a nat) is a range failure
	_, wellFormed := new(big.Int).SetString(strings.TrimSpace(text), 10)
	if errors.Is(err, strconv.ErrRange) || wellFormed {
		return fmt.Errorf("transcode: %s is out of range for %s", strings.TrimSpace(text), t.Name())
	}
	return fmt.Errorf("transcode: cannot parse %q as %s", text, t.Name())
}

func parsePrincipal(text string) (any, error) {
	p, err := principal.FromText(text)
	if err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}
	return p, nil
}

// parseFunc splits on the first '.' into principal text and method name.
func parseFunc(_ *idl.FuncType, text string) (any, error) {
	id, method, found := strings.Cut(text, ".")
	if !found || method == "" {
		return nil, fmt.Errorf("transcode: cannot parse %q as func reference, expected <principal>.<method>", text)
	}
	p, err := principal.FromText(id)
	if err != nil {
		return nil, fmt.Errorf("transcode: %w", err)
	}
	return idl.FuncRef{Principal: p, Method: method}, nil
}
