package typedoc_test

import (
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/typedoc"
)

func TestLoadFS_YAML(t *testing.T) {
	store := loadStore(t, "ledger")
	if diff := cmp.Diff([]string{"ledger", "registry"}, store.Services()); diff != "" {
		t.Fatalf("services mismatch (-want +got):\n%s", diff)
	}

	doc, ok := store.Document("ledger")
	if !ok {
		t.Fatalf("ledger document not found")
	}
	if doc.Description != "Token ledger with recursive history & accounts." {
		t.Fatalf("description not sanitised: %q", doc.Description)
	}

	var names []string
	for _, m := range doc.Methods {
		names = append(names, m.Name)
	}
	if diff := cmp.Diff([]string{"transfer", "balance_of", "history", "notify"}, names); diff != "" {
		t.Fatalf("method order mismatch (-want +got):\n%s", diff)
	}

	transfer, _ := doc.Method("transfer")
	if transfer.Description != "Moves tokens between accounts." {
		t.Fatalf("method description not sanitised: %q", transfer.Description)
	}
	if got := len(transfer.Func.Args); got != 3 {
		t.Fatalf("expected 3 transfer args, got %d", got)
	}

	balance, _ := doc.Method("balance_of")
	if diff := cmp.Diff([]string{"query"}, balance.Func.Annotations); diff != "" {
		t.Fatalf("modes mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_FieldOrderIsPreserved(t *testing.T) {
	doc, ok := loadStore(t, "ledger").Document("registry")
	if !ok {
		t.Fatalf("registry document not found")
	}
	entry, ok := doc.Type("Entry")
	if !ok {
		t.Fatalf("Entry type missing")
	}
	body, err := entry.(*idl.RecursiveType).Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var labels []string
	for _, f := range body.(*idl.RecordType).Fields {
		labels = append(labels, f.Label)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, labels); diff != "" {
		t.Fatalf("JSON field order mismatch (-want +got):\n%s", diff)
	}

	alias, _ := doc.Type("Alias")
	aliasBody, err := alias.(*idl.RecursiveType).Resolve()
	if err != nil || aliasBody != body {
		t.Fatalf("alias must resolve to the Entry body, got %v, %v", aliasBody, err)
	}

	register, _ := doc.Method("register")
	svc, ok := register.Func.Rets[0].(*idl.ServiceType)
	if !ok || len(svc.Methods) != 1 || svc.Methods[0].Name != "lookup" {
		t.Fatalf("unexpected service return %#v", register.Func.Rets[0])
	}
	clearMethod, _ := doc.Method("clear")
	if len(clearMethod.Func.Args) != 0 {
		t.Fatalf("empty method spec must have no args")
	}
}

func TestRecursiveTypesAreUsable(t *testing.T) {
	doc, _ := loadStore(t, "ledger").Document("ledger")

	history, _ := doc.Type("History")
	value := []any{map[string]any{
		"amount":   big.NewInt(10),
		"memo":     "first",
		"previous": []any{},
	}}
	if err := history.Covariant(value); err != nil {
		t.Fatalf("history value rejected: %v", err)
	}

	tree, _ := doc.Type("Tree")
	leaf := map[string]any{"node": map[string]any{
		"label":    "root",
		"children": []any{map[string]any{"leaf": int64(-3)}},
	}}
	if err := tree.Covariant(leaf); err != nil {
		t.Fatalf("mutually recursive value rejected: %v", err)
	}

	errType, _ := doc.Type("TransferError")
	if err := errType.Covariant(map[string]any{"BadFee": nil}); err != nil {
		t.Fatalf("empty alternative must be null: %v", err)
	}
}

func TestParseJSONAndYAMLAgree(t *testing.T) {
	yamlDoc := []byte(`
methods:
  put:
    args: [{record: {b: nat, a: {vec: text}}}, int256, nat1]
`)
	jsonDoc := []byte(`{"methods": {"put": {"args": [{"record": {"b": "nat", "a": {"vec": "text"}}}, "int256", "nat1"]}}}`)

	fromYAML, err := typedoc.Parse(yamlDoc, "kv.yaml")
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	fromJSON, err := typedoc.Parse(jsonDoc, "kv.json")
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if fromYAML.Service != "kv" {
		t.Fatalf("service should default to the file name, got %q", fromYAML.Service)
	}

	y, _ := fromYAML.Method("put")
	j, _ := fromJSON.Method("put")
	if y.Func.Name() != j.Func.Name() {
		t.Fatalf("signatures differ: %s vs %s", y.Func.Name(), j.Func.Name())
	}
	if bits := j.Func.Args[1].(idl.NumberType).Bits(); bits != 256 {
		t.Fatalf("expected int256, got %d bits", bits)
	}
}

func TestParseWithoutOptionalSections(t *testing.T) {
	cases := map[string]struct {
		doc     string
		methods int
		types   int
	}{
		"methods only":    {doc: "methods:\n  ping:\n", methods: 1},
		"types only":      {doc: "types:\n  Id: nat\n", types: 1},
		"service only":    {doc: "service: empty\n"},
		"json no types":   {doc: `{"methods": {"ping": null}}`, methods: 1},
		"explicit nulls":  {doc: "types:\nmethods:\n"},
		"json no methods": {doc: `{"types": {"Id": "nat"}}`, types: 1},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := typedoc.Parse([]byte(tc.doc), "doc.yaml")
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if len(doc.Methods) != tc.methods || len(doc.TypeNames()) != tc.types {
				t.Fatalf("expected %d methods and %d types, got %d and %d",
					tc.methods, tc.types, len(doc.Methods), len(doc.TypeNames()))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"empty":           {doc: "  ", want: "is empty"},
		"not a mapping":   {doc: "- a\n- b\n", want: "expected a mapping"},
		"unknown key":     {doc: "version: 2\n", want: `unknown key "version"`},
		"unknown type":    {doc: "methods:\n  m:\n    args: [Missing]\n", want: `unknown type "Missing"`},
		"bad width":       {doc: "methods:\n  m:\n    args: [nat512]\n", want: "invalid width"},
		"shadowing":       {doc: "types:\n  text: nat\n", want: "shadows a built-in type"},
		"two ctors":       {doc: "types:\n  T: {opt: nat, vec: nat}\n", want: "exactly one key"},
		"bad ctor":        {doc: "types:\n  T: {map: nat}\n", want: `unknown type constructor "map"`},
		"empty variant":   {doc: "types:\n  T: {variant: {}}\n", want: "at least one alternative"},
		"alias loop":      {doc: "types:\n  A: B\n  B: A\n", want: "no structural definition"},
		"bad mode":        {doc: "methods:\n  m: {modes: [update]}\n", want: `unknown mode "update"`},
		"duplicate key":   {doc: `{"types": {"A": "nat", "A": "text"}}`, want: "duplicate key"},
		"tuple not list":  {doc: "types:\n  T: {tuple: nat}\n", want: "expected a list of types"},
		"func desc":       {doc: "types:\n  F: {func: {description: x}}\n", want: `unknown key "description"`},
		"invalid content": {doc: "{\"a\": [", want: "invalid JSON or YAML"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := typedoc.Parse([]byte(tc.doc), "doc.yaml")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestParseErrorsCarryLineNumbers(t *testing.T) {
	_, err := typedoc.Parse([]byte("types:\n  A: nat\n  B:\n    opt: Nope\n"), "doc.yaml")
	if err == nil || !strings.Contains(err.Error(), "doc.yaml:4: types.B.opt") {
		t.Fatalf("expected positioned error, got %v", err)
	}
}

func TestLoadFS_DuplicateService(t *testing.T) {
	if _, err := typedoc.LoadFS(subDirFS(t, "duplicate")); err == nil || !strings.Contains(err.Error(), `duplicate service "shared"`) {
		t.Fatalf("expected duplicate service error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	doc, err := typedoc.LoadFile(filepath.Join(testdataRoot(), "ledger", "registry.json"))
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if len(doc.Actor().Methods) != 2 {
		t.Fatalf("expected actor with 2 methods")
	}
	if _, err := typedoc.LoadFile(filepath.Join(testdataRoot(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func TestNilStore(t *testing.T) {
	store, err := typedoc.LoadFS(nil)
	if err != nil || !store.Empty() {
		t.Fatalf("nil filesystem must yield an empty store, got %v", err)
	}
}

func loadStore(t *testing.T, subdir string) *typedoc.Store {
	t.Helper()
	store, err := typedoc.LoadFS(subDirFS(t, subdir))
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}

func subDirFS(t *testing.T, subdir string) fs.FS {
	t.Helper()
	fsys, err := fs.Sub(os.DirFS(testdataRoot()), subdir)
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	return fsys
}

func testdataRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "testdata"
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}
