package widgets

import (
	"testing"

	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/model"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Type:   model.FieldTypeCheckbox,
		Widget: "custom-switch",
	}

	if got, ok := reg.Resolve(field); !ok || got != "custom-switch" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		typ    idl.Type
		expect string
	}{
		{"bool", idl.Bool, WidgetCheckbox},
		{"variant", idl.Variant(idl.Field("a", idl.Null)), WidgetTagSelect},
		{"vector", idl.Vec(idl.Text), WidgetRepeater},
		{"optional", idl.Opt(idl.Text), WidgetToggle},
		{"principal", idl.Principal, WidgetPrincipal},
		{"nat", idl.Nat, WidgetBigNumber},
		{"int64", idl.Int64, WidgetBigNumber},
		{"nat32", idl.Nat32, WidgetNumber},
		{"float64", idl.Float64, WidgetNumber},
		{"record", idl.Record(idl.Field("a", idl.Text)), WidgetFieldset},
		{"tuple", idl.Tuple(idl.Text), WidgetFieldset},
		{"null", idl.Null, WidgetLabel},
		{"text", idl.Text, WidgetTextInput},
		{"service", idl.Service(), WidgetTextInput},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			field, err := model.ExtractField(tc.typ, tc.name)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			got, ok := reg.Resolve(field)
			if !ok {
				t.Fatalf("expected resolution for %s", tc.name)
			}
			if got != tc.expect {
				t.Fatalf("resolve %s: want %q, got %q", tc.name, tc.expect, got)
			}
		})
	}
}

func TestResolve_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register("custom", 999, func(field model.Field) bool {
		return field.Type == model.FieldTypeCheckbox
	})

	got, ok := reg.Resolve(model.Field{Type: model.FieldTypeCheckbox})
	if !ok || got != "custom" {
		t.Fatalf("priority matcher should win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_EmptyRegistry(t *testing.T) {
	var reg *Registry
	if _, ok := reg.Resolve(model.Field{Type: model.FieldTypeText}); ok {
		t.Fatalf("nil registry must not resolve")
	}
	if _, ok := (&Registry{}).Resolve(model.Field{Type: model.FieldTypeText}); ok {
		t.Fatalf("empty registry must not resolve")
	}
}

func TestDecorator_AppliesWidgetHints(t *testing.T) {
	reg := NewRegistry()

	form, err := model.NewExtractor().ExtractMethod("update", idl.Func([]idl.Type{
		idl.Record(idl.Field("enabled", idl.Bool), idl.Field("tags", idl.Vec(idl.Text))),
	}, nil))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	form.Fields[0].Fields[0].Widget = "custom-switch"

	if err := reg.Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	record := form.Fields[0]
	if record.Widget != WidgetFieldset {
		t.Fatalf("record widget not applied: %q", record.Widget)
	}
	if record.Fields[0].Widget != "custom-switch" {
		t.Fatalf("explicit widget overwritten: %q", record.Fields[0].Widget)
	}
	tags := record.Fields[1]
	if tags.Widget != WidgetRepeater || tags.Fields[0].Widget != WidgetTextInput {
		t.Fatalf("tags widgets not applied: %q / %q", tags.Widget, tags.Fields[0].Widget)
	}
}
