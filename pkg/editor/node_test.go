package editor

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/model"
	"github.com/goliatone/go-candidform/pkg/principal"
	"github.com/goliatone/go-candidform/pkg/state"
	"github.com/goliatone/go-candidform/pkg/trace"
	"github.com/goliatone/go-candidform/pkg/transcode"
)

var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
})

var principalComparer = cmp.Comparer(func(a, b principal.Principal) bool { return a.Equal(b) })

func mount(t *testing.T, c *Composer, typ idl.Type, path string) *Node {
	t.Helper()
	field, err := model.ExtractField(typ, path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	n, err := c.Mount(field, path)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return n
}

func child(t *testing.T, n *Node, i int) *Node {
	t.Helper()
	c, err := n.ChildNode(i)
	if err != nil {
		t.Fatalf("child %d of %s: %v", i, n.Path(), err)
	}
	return c
}

func setText(t *testing.T, n *Node, text string) {
	t.Helper()
	if err := n.SetText(text); err != nil {
		t.Fatalf("set text %q at %s: %v", text, n.Path(), err)
	}
}

func TestVectorAppendThenRemove(t *testing.T) {
	store := state.NewStore(nil)
	c := New(WithState(store))
	vec := mount(t, c, idl.Vec(idl.Text), "items")

	for _, text := range []string{"first", "second", "third"} {
		item, err := vec.Append()
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		setText(t, item, text)
	}
	if err := vec.Remove(1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if vec.Len() != 2 {
		t.Fatalf("expected 2 children, got %d", vec.Len())
	}
	var paths, texts []string
	for _, item := range vec.Children() {
		paths = append(paths, item.Path())
		texts = append(texts, item.Text())
	}
	if diff := cmp.Diff([]string{"items.[0]", "items.[1]"}, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"first", "third"}, texts); diff != "" {
		t.Fatalf("texts mismatch (-want +got):\n%s", diff)
	}
	if _, ok := store.Get("items.[2]"); ok {
		t.Fatalf("removed slot must be absent from the form state")
	}
	if got, _ := store.Get("items.[1]"); got != "third" {
		t.Fatalf("expected shifted value at items.[1], got %v", got)
	}

	v, err := vec.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if diff := cmp.Diff([]any{"first", "third"}, v); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestVectorRemoveRenumbersNestedPaths(t *testing.T) {
	c := New()
	vec := mount(t, c, idl.Vec(idl.Record(idl.Field("name", idl.Text))), "people")
	for i := 0; i < 3; i++ {
		if _, err := vec.Append(); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	setText(t, child(t, child(t, vec, 2), 0), "carol")
	if err := vec.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	name := child(t, child(t, vec, 1), 0)
	if name.Path() != "people.[1].name" || name.Text() != "carol" {
		t.Fatalf("expected carol at people.[1].name, got %q at %s", name.Text(), name.Path())
	}
	if got, _ := c.State().Get("people.[1].name"); got != "carol" {
		t.Fatalf("form state not shifted, got %v", got)
	}
}

func TestVariantRetagDoesNotLeakState(t *testing.T) {
	store := state.NewStore(nil)
	c := New(WithState(store))
	v := mount(t, c, idl.Variant(idl.Field("A", idl.Nat), idl.Field("B", idl.Text)), "choice")

	if v.Selected() != "A" {
		t.Fatalf("expected first alternative selected, got %q", v.Selected())
	}
	setText(t, child(t, v, 0), "5")
	if got, _ := store.Get("choice.A"); got.(*big.Int).Int64() != 5 {
		t.Fatalf("expected 5 stored, got %v", got)
	}

	if err := v.OnRetag("B"); err != nil {
		t.Fatalf("retag B: %v", err)
	}
	if _, ok := store.Get("choice.A"); ok {
		t.Fatalf("old branch must be cleared")
	}
	if err := v.OnRetag("A"); err != nil {
		t.Fatalf("retag A: %v", err)
	}

	a := child(t, v, 0)
	if a.Text() != "" {
		t.Fatalf("expected default text, got %q", a.Text())
	}
	if _, ok := store.Get("choice.A"); ok {
		t.Fatalf("stale value resurfaced")
	}
	if _, ok := store.Get("choice.B"); ok {
		t.Fatalf("B branch must be cleared")
	}
	if err := v.OnRetag("C"); err == nil {
		t.Fatalf("expected error for unknown tag")
	}
}

func TestRecursiveListExpandsOneLevelAtATime(t *testing.T) {
	reg := idl.NewRegistry()
	list := reg.Rec("List")
	reg.MustDefine("List", idl.Opt(idl.Record(idl.Field("head", idl.Nat), idl.Field("tail", list))))

	c := New()
	root := mount(t, c, list, "list")
	if len(root.Children()) != 0 {
		t.Fatalf("recursive node must not expand at mount")
	}

	current := root
	for depth := 1; depth <= 3; depth++ {
		record, err := current.Append()
		if err != nil {
			t.Fatalf("expand depth %d: %v", depth, err)
		}
		setText(t, child(t, record, 0), big.NewInt(int64(depth)).String())
		current = child(t, record, 1)
		if len(current.Children()) != 0 {
			t.Fatalf("tail at depth %d expanded eagerly", depth)
		}
	}

	v, err := root.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	want := []any{map[string]any{
		"head": big.NewInt(1),
		"tail": []any{map[string]any{
			"head": big.NewInt(2),
			"tail": []any{map[string]any{
				"head": big.NewInt(3),
				"tail": []any{},
			}},
		}},
	}}
	if diff := cmp.Diff(want, v, bigIntComparer); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if got := current.Path(); got != "list.[0].tail.[0].tail.[0].tail" {
		t.Fatalf("unexpected deepest path %q", got)
	}
	if err := list.Covariant(v); err != nil {
		t.Fatalf("assembled value rejected: %v", err)
	}
}

func TestTupleOfBoolAndNatsEndToEnd(t *testing.T) {
	c := New()
	root := mount(t, c, idl.Tuple(idl.Bool, idl.Vec(idl.Nat)), "args")

	setText(t, child(t, root, 0), "true")
	nats := child(t, root, 1)
	for _, text := range []string{"1", "2", "3"} {
		item, err := nats.Append()
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		setText(t, item, text)
	}

	var submitted any
	if err := root.Submit(func(v any) error { submitted = v; return nil }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := []any{true, []any{big.NewInt(1), big.NewInt(2), big.NewInt(3)}}
	if diff := cmp.Diff(want, submitted, bigIntComparer); diff != "" {
		t.Fatalf("submitted mismatch (-want +got):\n%s", diff)
	}
}

func TestSetTextRejectsAndRetainsPreviousValue(t *testing.T) {
	c := New()
	n := mount(t, c, idl.Nat8, "age")
	setText(t, n, "5")

	err := n.SetText("300")
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Path != "age" {
		t.Fatalf("expected FieldError at age, got %v", err)
	}
	if n.Text() != "5" || n.Error() == "" {
		t.Fatalf("expected previous text retained with error, got %q / %q", n.Text(), n.Error())
	}
	if got, _ := c.State().Get("age"); got != int64(5) {
		t.Fatalf("expected stored 5, got %v", got)
	}

	var verrs ValidationErrors
	if _, err := n.Value(); !errors.As(err, &verrs) || verrs.Fields()["age"] == "" {
		t.Fatalf("pending field error must block submission, got %v", err)
	}

	setText(t, n, "6")
	if n.Error() != "" {
		t.Fatalf("error not cleared after valid input")
	}
	if err := n.SetText("yes"); err == nil {
		t.Fatalf("expected parse failure")
	}
}

func TestSubmitReportsEveryInvalidField(t *testing.T) {
	c := New()
	root := mount(t, c, idl.Record(
		idl.Field("id", idl.Nat),
		idl.Field("owner", idl.Principal),
		idl.Field("label", idl.Text),
		idl.Field("on", idl.Bool),
	), "rec")

	called := false
	err := root.Submit(func(any) error { called = true; return nil })
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if called {
		t.Fatalf("submit callback must not run with invalid fields")
	}
	var paths []string
	for _, fe := range verrs {
		paths = append(paths, fe.Path)
	}
	if diff := cmp.Diff([]string{"rec.id", "rec.owner"}, paths); diff != "" {
		t.Fatalf("invalid paths mismatch (-want +got):\n%s", diff)
	}
}

func TestRandomModeSynthesizesEmptyLeaves(t *testing.T) {
	typ := idl.Record(
		idl.Field("id", idl.Nat),
		idl.Field("owner", idl.Principal),
		idl.Field("label", idl.Text),
		idl.Field("small", idl.Int8),
	)
	c := New(WithParseConfig(transcode.ParseConfig{Random: true, Synthesizer: transcode.NewSynthesizer(transcode.WithSeed(1))}))
	root := mount(t, c, typ, "rec")
	setText(t, child(t, root, 3), "-3")

	v, err := root.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if err := typ.Covariant(v); err != nil {
		t.Fatalf("synthesized value rejected: %v", err)
	}
	if got := v.(map[string]any)["small"]; got != int64(-3) {
		t.Fatalf("explicit input must be parsed, got %v", got)
	}
	if label := v.(map[string]any)["label"].(string); label == "" {
		t.Fatalf("empty text must be synthesized in random mode")
	}
	if _, ok := c.State().Get("rec.owner"); !ok {
		t.Fatalf("synthesized values are written back to the form state")
	}

	setText(t, child(t, root, 3), "")
	if child(t, root, 3).Text() != "" {
		t.Fatalf("empty input in random mode clears the leaf")
	}
}

func TestSetValueRendersThroughTheEditor(t *testing.T) {
	typ := idl.Record(
		idl.Field("name", idl.Text),
		idl.Field("tags", idl.Vec(idl.Nat16)),
		idl.Field("note", idl.Opt(idl.Text)),
		idl.Field("status", idl.Variant(idl.Field("active", idl.Null), idl.Field("banned", idl.Text))),
		idl.Field("owner", idl.Principal),
		idl.Field("callback", idl.Func([]idl.Type{idl.Text}, nil)),
	)
	value := map[string]any{
		"name":     "ada",
		"tags":     []any{int64(1), int64(2)},
		"note":     []any{"hi"},
		"status":   map[string]any{"banned": "spam"},
		"owner":    principal.Anonymous,
		"callback": idl.FuncRef{Principal: principal.Management, Method: "notify"},
	}

	c := New()
	root := mount(t, c, typ, "rec")
	if err := root.SetValue(value); err != nil {
		t.Fatalf("set value: %v", err)
	}
	got, err := root.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if diff := cmp.Diff(value, got, principalComparer); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}

	shorter := map[string]any{
		"name":     "bob",
		"tags":     []any{},
		"note":     []any{},
		"status":   map[string]any{"active": nil},
		"owner":    principal.Anonymous,
		"callback": idl.FuncRef{Principal: principal.Management, Method: "notify"},
	}
	if err := root.SetValue(shorter); err != nil {
		t.Fatalf("set shorter value: %v", err)
	}
	got, err = root.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if diff := cmp.Diff(shorter, got, principalComparer); diff != "" {
		t.Fatalf("value mismatch after reset (-want +got):\n%s", diff)
	}

	var fe *FieldError
	if err := root.SetValue(map[string]any{"name": 1}); !errors.As(err, &fe) {
		t.Fatalf("expected FieldError for a mistyped value, got %v", err)
	}
}

func TestSetValueOnRecursiveList(t *testing.T) {
	reg := idl.NewRegistry()
	list := reg.Rec("List")
	reg.MustDefine("List", idl.Opt(idl.Record(idl.Field("head", idl.Nat), idl.Field("tail", list))))
	value := []any{map[string]any{
		"head": big.NewInt(7),
		"tail": []any{map[string]any{"head": big.NewInt(8), "tail": []any{}}},
	}}

	root := mount(t, New(), list, "list")
	if err := root.SetValue(value); err != nil {
		t.Fatalf("set value: %v", err)
	}
	got, err := root.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if diff := cmp.Diff(value, got, bigIntComparer); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionalExpandCollapse(t *testing.T) {
	store := state.NewStore(nil)
	c := New(WithState(store))
	opt := mount(t, c, idl.Opt(idl.Text), "note")

	if err := opt.OnExpand(true); err != nil {
		t.Fatalf("expand: %v", err)
	}
	if err := opt.OnExpand(true); err != nil {
		t.Fatalf("expanding twice is a no-op: %v", err)
	}
	setText(t, child(t, opt, 0), "hello")
	if _, err := opt.Append(); err == nil {
		t.Fatalf("optional holds at most one value")
	}
	if err := opt.Remove(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if opt.Enabled() {
		t.Fatalf("expected collapsed optional")
	}
	if _, ok := store.Get("note.[0]"); ok {
		t.Fatalf("collapsed optional must release its path")
	}
	if err := opt.OnExpand(true); err != nil {
		t.Fatalf("expand: %v", err)
	}
	if child(t, opt, 0).Text() != "" {
		t.Fatalf("re-expansion must start from the default")
	}
}

func TestInvalidOperations(t *testing.T) {
	c := New()
	record := mount(t, c, idl.Record(idl.Field("a", idl.Text)), "r")
	text := child(t, record, 0)

	checks := []error{
		func() error { _, err := record.Append(); return err }(),
		record.Remove(0),
		record.SetText("x"),
		record.OnExpand(true),
		record.OnResize(2),
		record.OnRetag("a"),
		text.Select(0),
	}
	for i, err := range checks {
		if !errors.Is(err, ErrInvalidOp) {
			t.Fatalf("check %d: expected ErrInvalidOp, got %v", i, err)
		}
	}

	vec := mount(t, c, idl.Vec(idl.Text), "v")
	if err := vec.OnResize(-1); err == nil {
		t.Fatalf("expected error for negative length")
	}
	if err := vec.Remove(0); err == nil {
		t.Fatalf("expected error removing from an empty vector")
	}
	if _, err := vec.Child(0); err == nil {
		t.Fatalf("expected error for missing child")
	}
}

func TestDestroyedNodesRejectOperations(t *testing.T) {
	c := New()
	vec := mount(t, c, idl.Vec(idl.Text), "v")
	item, _ := vec.Append()
	if err := vec.OnResize(0); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if err := item.SetText("late"); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("expected ErrDestroyed, got %v", err)
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	c := New()
	root := mount(t, c, idl.Record(
		idl.Field("flag", idl.Bool),
		idl.Field("items", idl.Vec(idl.Text)),
		idl.Field("pick", idl.Variant(idl.Field("x", idl.Null), idl.Field("y", idl.Text))),
	), "r")

	setText(t, child(t, root, 0), "true")
	items := child(t, root, 1)
	if err := items.OnResize(2); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if err := child(t, root, 2).OnRetag("y"); err != nil {
		t.Fatalf("retag: %v", err)
	}

	if err := root.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	v, err := root.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	want := map[string]any{"flag": false, "items": []any{}, "pick": map[string]any{"x": nil}}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestResetOfVectorItemKeepsSiblings(t *testing.T) {
	c := New()
	vec := mount(t, c, idl.Vec(idl.Text), "v")
	for _, text := range []string{"a", "b", "c"} {
		item, _ := vec.Append()
		setText(t, item, text)
	}
	if err := child(t, vec, 1).Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	v, err := vec.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if diff := cmp.Diff([]any{"a", "", "c"}, v); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if got, _ := c.State().Get("v.[2]"); got != "c" {
		t.Fatalf("sibling shifted in form state, got %v", got)
	}
}

func TestUnboundedRecursionIsReported(t *testing.T) {
	reg := idl.NewRegistry()
	loop := reg.Rec("Loop")
	reg.MustDefine("Loop", idl.Record(idl.Field("next", loop)))

	root := mount(t, New(WithMaxAutoExpand(4)), loop, "loop")
	if _, err := root.Value(); !errors.Is(err, ErrUnbounded) {
		t.Fatalf("expected ErrUnbounded, got %v", err)
	}
}

func TestMountMethodAndSubmitArguments(t *testing.T) {
	form, err := model.NewExtractor().ExtractMethod("transfer", idl.Func(
		[]idl.Type{idl.Principal, idl.Nat64, idl.Opt(idl.Text)}, nil,
	))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	c := New()
	nodes, err := c.MountMethod(form)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if nodes[1].Path() != "transfer.[1]" {
		t.Fatalf("unexpected argument path %q", nodes[1].Path())
	}
	setText(t, nodes[0], "aaaaa-aa")
	setText(t, nodes[1], "18446744073709551615")

	var args []any
	if err := c.Submit(func(a []any) error { args = a; return nil }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	max64, _ := new(big.Int).SetString("18446744073709551615", 10)
	want := []any{principal.Management, max64, []any{}}
	if diff := cmp.Diff(want, args, bigIntComparer, principalComparer); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if len(c.Roots()) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(c.Roots()))
	}
	if _, err := c.MountMethod(model.FormModel{}); err == nil {
		t.Fatalf("expected error without method name")
	}
}

func TestComposerHoldsOneMethodForm(t *testing.T) {
	form, err := model.NewExtractor().ExtractMethod("put", idl.Func([]idl.Type{idl.Text, idl.Nat8}, nil))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	c := New()
	nodes, err := c.MountMethod(form)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	if _, err := c.MountMethod(form); !errors.Is(err, ErrAlreadyMounted) {
		t.Fatalf("expected ErrAlreadyMounted on a second method, got %v", err)
	}
	if _, err := c.Mount(form.Fields[0], "put.[0]"); !errors.Is(err, ErrAlreadyMounted) {
		t.Fatalf("expected ErrAlreadyMounted for a duplicate root path, got %v", err)
	}

	setText(t, nodes[0], "k")
	setText(t, nodes[1], "7")
	args, err := c.Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	if diff := cmp.Diff([]any{"k", int64(7)}, args); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}

	other := New()
	mount(t, other, idl.Bool, "flag")
	if _, err := other.MountMethod(form); !errors.Is(err, ErrAlreadyMounted) {
		t.Fatalf("expected ErrAlreadyMounted over existing roots, got %v", err)
	}
}

func TestMountReferenceArguments(t *testing.T) {
	callback := idl.Func([]idl.Type{idl.Text}, nil)
	form, err := model.NewExtractor().ExtractMethod("subscribe", idl.Func(
		[]idl.Type{callback, idl.Service(), idl.Record(idl.Field("cb", callback))}, nil,
	))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	c := New()
	nodes, err := c.MountMethod(form)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	cb := child(t, nodes[2], 0)
	for _, n := range []*Node{nodes[0], nodes[1], cb} {
		if n.Text() != "" {
			t.Fatalf("expected %s to start empty, got %q", n.Path(), n.Text())
		}
	}

	var verrs ValidationErrors
	if _, err := c.Values(); !errors.As(err, &verrs) || len(verrs.Fields()) != 3 {
		t.Fatalf("expected three required references, got %v", err)
	}

	setText(t, nodes[0], "aaaaa-aa.notify")
	setText(t, nodes[1], "aaaaa-aa")
	setText(t, cb, "2vxsx-fae.ping")

	args, err := c.Values()
	if err != nil {
		t.Fatalf("values: %v", err)
	}
	want := []any{
		idl.FuncRef{Principal: principal.Management, Method: "notify"},
		principal.Management,
		map[string]any{"cb": idl.FuncRef{Principal: principal.Anonymous, Method: "ping"}},
	}
	if diff := cmp.Diff(want, args, principalComparer); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestTracerRecordsTransitions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := New(WithTracer(trace.New(zap.New(core))))
	vec := mount(t, c, idl.Vec(idl.Nat8), "v")
	item, _ := vec.Append()
	_ = item.SetText("999")
	_ = vec.Remove(0)

	if logs.FilterMessage("editor.mount").Len() != 2 {
		t.Fatalf("expected two mount steps, got %d", logs.FilterMessage("editor.mount").Len())
	}
	if logs.FilterMessage("editor.remove").Len() != 1 {
		t.Fatalf("expected one remove step")
	}
	failures := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(failures) != 1 || failures[0].ContextMap()["path"] != "v.[0]" {
		t.Fatalf("expected one failure at v.[0], got %+v", failures)
	}
}
