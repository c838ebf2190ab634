package transcode

import (
	"fmt"
	"math/big"
	"math/rand/v2"

	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/principal"
)

const (
	// DefaultMaxDepth bounds recursive expansion. Once reached, vectors are
	// empty, optionals absent and a further recursive reference fails so an
	// enclosing variant falls back to its next alternative.
	DefaultMaxDepth = 4

	maxMagnitude = 100
	maxVecLen    = 3
	tokenLength  = 6
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Synthesizer produces pseudo-random values. It is not safe for concurrent
// use when built with a seeded source.
type Synthesizer struct {
	rng      *rand.Rand
	maxDepth int
}

// SynthOption configures a Synthesizer.
type SynthOption func(*Synthesizer)

// WithSeed makes the output reproducible.
func WithSeed(seed uint64) SynthOption {
	return func(s *Synthesizer) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand uses r as the random source.
func WithRand(r *rand.Rand) SynthOption {
	return func(s *Synthesizer) {
		s.rng = r
	}
}

// WithMaxDepth sets the recursive expansion budget.
func WithMaxDepth(depth int) SynthOption {
	return func(s *Synthesizer) {
		if depth >= 0 {
			s.maxDepth = depth
		}
	}
}

// NewSynthesizer builds a Synthesizer. Without a seed the process-wide
// source is used.
func NewSynthesizer(opts ...SynthOption) *Synthesizer {
	s := &Synthesizer{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Synthesize returns a random value accepted by t using the process-wide
// source.
func Synthesize(t idl.Type) (any, error) {
	return NewSynthesizer().Synthesize(t)
}

// Synthesize returns a random value accepted by t.
func (s *Synthesizer) Synthesize(t idl.Type) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("transcode: type is required")
	}
	return idl.Accept(t, synthesizer, synthState{s: s})
}

type synthState struct {
	s     *Synthesizer
	depth int
}

func (st synthState) exhausted() bool { return st.depth >= st.s.maxDepth }

var synthesizer *idl.Visitor[synthState, any]

func init() {
	synthesizer = &idl.Visitor[synthState, any]{
		Null:      func(*idl.NullType, synthState) (any, error) { return nil, nil },
		Bool:      func(_ *idl.BoolType, st synthState) (any, error) { return st.s.intN(2) == 0, nil },
		Text:      func(_ *idl.TextType, st synthState) (any, error) { return st.s.token(), nil },
		Number:    synthNumber,
		Principal: func(_ *idl.PrincipalType, st synthState) (any, error) { return st.s.principal() },
		Service:   func(_ *idl.ServiceType, st synthState) (any, error) { return st.s.principal() },
		Func: func(_ *idl.FuncType, st synthState) (any, error) {
			p, err := st.s.principal()
			if err != nil {
				return nil, err
			}
			return idl.FuncRef{Principal: p, Method: st.s.token()}, nil
		},
		Record:    synthRecord,
		Tuple:     synthTuple,
		Variant:   synthVariant,
		Vector:    synthVector,
		Optional:  synthOptional,
		Recursive: synthRecursive,
	}
}

func synthNumber(t idl.NumberType, st synthState) (any, error) {
	if _, ok := t.(*idl.FloatType); ok {
		for {
			f := st.s.unit()
			if t.Bits() == 32 {
				f = float64(float32(f))
			}
			if f < 1 {
				return f, nil
			}
		}
	}

	magnitude := int64(st.s.intN(maxMagnitude))
	if t.Signed() && st.s.intN(2) == 0 {
		magnitude = -magnitude
	}
	if n := big.NewInt(magnitude); !idl.InRange(t, n) {
		lo, hi := idl.FixedRange(t.Bits(), t.Signed())
		if magnitude < 0 {
			magnitude = lo.Int64()
		} else {
			magnitude = hi.Int64()
		}
	}
	if idl.IsNative(t) {
		return magnitude, nil
	}
	return big.NewInt(magnitude), nil
}

func synthRecord(t *idl.RecordType, st synthState) (any, error) {
	out := make(map[string]any, len(t.Fields))
	for _, f := range t.Fields {
		v, err := idl.Accept(f.Type, synthesizer, st)
		if err != nil {
			return nil, err
		}
		out[f.Label] = v
	}
	return out, nil
}

func synthTuple(t *idl.TupleType, st synthState) (any, error) {
	out := make([]any, len(t.Elems))
	for i, elem := range t.Elems {
		v, err := idl.Accept(elem, synthesizer, st)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// synthVariant picks the first declared alternative. Later alternatives are
// only tried when an earlier one has no finite value.
func synthVariant(t *idl.VariantType, st synthState) (any, error) {
	var lastErr error
	for _, alt := range t.Fields {
		v, err := idl.Accept(alt.Type, synthesizer, st)
		if err != nil {
			lastErr = err
			continue
		}
		return map[string]any{alt.Label: v}, nil
	}
	return nil, lastErr
}

func synthVector(t *idl.VectorType, st synthState) (any, error) {
	if st.exhausted() {
		return []any{}, nil
	}
	n := st.s.intN(maxVecLen + 1)
	out := make([]any, n)
	for i := range out {
		v, err := idl.Accept(t.Elem, synthesizer, st)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func synthOptional(t *idl.OptionalType, st synthState) (any, error) {
	if st.exhausted() || st.s.intN(2) == 0 {
		return []any{}, nil
	}
	v, err := idl.Accept(t.Elem, synthesizer, st)
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}

func synthRecursive(t *idl.RecursiveType, st synthState) (any, error) {
	if st.depth > st.s.maxDepth {
		return nil, fmt.Errorf("transcode: type %s has no finite value within depth %d", t.Name(), st.s.maxDepth)
	}
	body, err := t.Resolve()
	if err != nil {
		return nil, err
	}
	return idl.Accept(body, synthesizer, synthState{s: st.s, depth: st.depth + 1})
}

func (s *Synthesizer) intN(n int) int {
	if s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

func (s *Synthesizer) unit() float64 {
	if s.rng == nil {
		return rand.Float64()
	}
	return s.rng.Float64()
}

func (s *Synthesizer) token() string {
	b := make([]byte, tokenLength)
	for i := range b {
		b[i] = alphanumeric[s.intN(len(alphanumeric))]
	}
	return string(b)
}

// principal returns an opaque principal of canister id length.
func (s *Synthesizer) principal() (principal.Principal, error) {
	raw := make([]byte, 10)
	for i := range raw {
		raw[i] = byte(s.intN(256))
	}
	return principal.FromBytes(raw)
}
