package transcode

import (
	"math/big"
	"math/rand/v2"
	"testing"

	"github.com/goliatone/go-candidform/pkg/idl"
)

func TestSynthesizeSatisfiesType(t *testing.T) {
	reg := idl.NewRegistry()
	list := reg.Rec("List")
	reg.MustDefine("List", idl.Opt(idl.Record(idl.Field("head", idl.Nat), idl.Field("tail", list))))
	tree := reg.Rec("Tree")
	reg.MustDefine("Tree", idl.Variant(
		idl.Field("node", idl.Record(idl.Field("left", tree), idl.Field("right", tree))),
		idl.Field("leaf", idl.Int32),
	))

	widths := []int{8, 16, 32, 64, 128, 256}
	rng := rand.New(rand.NewPCG(1, 2))
	synth := NewSynthesizer(WithRand(rng))

	for i := 0; i < 1000; i++ {
		bits := widths[rng.IntN(len(widths))]
		types := []idl.Type{
			idl.Null, idl.Bool, idl.Text, idl.Int, idl.Nat, idl.Float32, idl.Float64,
			idl.FixedInt(bits), idl.FixedNat(bits), idl.Principal,
			idl.Service(), idl.Func([]idl.Type{idl.Text}, nil),
			idl.Record(idl.Field("a", idl.FixedInt(bits)), idl.Field("b", idl.Text)),
			idl.Variant(idl.Field("x", idl.FixedNat(bits)), idl.Field("y", idl.Null)),
			idl.Tuple(idl.Bool, idl.Vec(idl.FixedNat(bits))),
			idl.Vec(idl.Opt(idl.Int)),
			list, tree,
		}
		for _, typ := range types {
			v, err := synth.Synthesize(typ)
			if err != nil {
				t.Fatalf("synthesize %s: %v", typ.Name(), err)
			}
			if err := typ.Covariant(v); err != nil {
				t.Fatalf("synthesize %s produced %v: %v", typ.Name(), v, err)
			}
		}
	}
}

func TestSynthesizeRepresentation(t *testing.T) {
	synth := NewSynthesizer(WithSeed(3))
	for i := 0; i < 200; i++ {
		v, _ := synth.Synthesize(idl.Int16)
		n, ok := v.(int64)
		if !ok || n < -99 || n > 99 {
			t.Fatalf("int16: expected native magnitude below 100, got %T %v", v, v)
		}

		v, _ = synth.Synthesize(idl.Nat64)
		b, ok := v.(*big.Int)
		if !ok || b.Sign() < 0 || b.Cmp(big.NewInt(99)) > 0 {
			t.Fatalf("nat64: expected non-negative big int below 100, got %T %v", v, v)
		}

		v, _ = synth.Synthesize(idl.Float64)
		if f := v.(float64); f < 0 || f >= 1 {
			t.Fatalf("float64 out of [0,1): %v", f)
		}

		v, _ = synth.Synthesize(idl.Variant(idl.Field("first", idl.Text), idl.Field("second", idl.Text)))
		if _, ok := v.(map[string]any)["first"]; !ok {
			t.Fatalf("variant synthesis must select the first alternative, got %v", v)
		}
	}
}

func TestSynthesizeSeedIsReproducible(t *testing.T) {
	typ := idl.Record(idl.Field("n", idl.Int), idl.Field("s", idl.Text), idl.Field("v", idl.Vec(idl.Nat8)))
	a, _ := NewSynthesizer(WithSeed(99)).Synthesize(typ)
	b, _ := NewSynthesizer(WithSeed(99)).Synthesize(typ)
	fa, _ := idl.FormatValue(typ, a)
	fb, _ := idl.FormatValue(typ, b)
	if fa != fb {
		t.Fatalf("same seed produced %s and %s", fa, fb)
	}
}

func TestSynthesizeWithoutFiniteValue(t *testing.T) {
	reg := idl.NewRegistry()
	loop := reg.Rec("Loop")
	reg.MustDefine("Loop", idl.Record(idl.Field("next", loop)))
	if _, err := Synthesize(loop); err == nil {
		t.Fatalf("expected error for a type without finite values")
	}
}

func TestSynthesizeZeroDepthStopsContainers(t *testing.T) {
	synth := NewSynthesizer(WithSeed(5), WithMaxDepth(0))
	for i := 0; i < 20; i++ {
		v, err := synth.Synthesize(idl.Vec(idl.Nat))
		if err != nil {
			t.Fatalf("synthesize: %v", err)
		}
		if len(v.([]any)) != 0 {
			t.Fatalf("expected empty vector with zero depth budget, got %v", v)
		}
	}
}

func TestParseValuePolicy(t *testing.T) {
	random := ParseConfig{Random: true, Synthesizer: NewSynthesizer(WithSeed(11))}

	v, err := ParseValue(idl.Nat8, random, "")
	if err != nil {
		t.Fatalf("random empty: %v", err)
	}
	if err := idl.Nat8.Covariant(v); err != nil {
		t.Fatalf("synthesized value rejected: %v", err)
	}

	v, err = ParseValue(idl.Nat8, random, "12")
	if err != nil || v != int64(12) {
		t.Fatalf("non-empty input must be parsed, got %v %v", v, err)
	}

	if _, err := ParseValue(idl.Nat8, ParseConfig{}, ""); err == nil {
		t.Fatalf("empty input without random mode must be parsed strictly")
	}
	v, err = ParseValue(idl.Text, ParseConfig{}, "")
	if err != nil || v != "" {
		t.Fatalf("empty text parses to empty string, got %v %v", v, err)
	}
}
