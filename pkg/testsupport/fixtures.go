package testsupport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgmodel "github.com/goliatone/go-candidform/pkg/model"
	"github.com/goliatone/go-candidform/pkg/typedoc"
)

// LoadDocument reads a type document fixture. Testing helpers fail the test
// on error to keep contract tests concise.
func LoadDocument(t *testing.T, path string) *typedoc.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T, allowing
// callers to wire fixtures in setup functions.
func LoadDocumentFromPath(path string) (*typedoc.Document, error) {
	if path == "" {
		return nil, errors.New("testsupport: document path is required")
	}
	doc, err := typedoc.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: load document: %w", err)
	}
	return doc, nil
}

// MustExtractForms derives one form per method of doc, in declaration order.
func MustExtractForms(t *testing.T, doc *typedoc.Document) []pkgmodel.FormModel {
	t.Helper()

	extractor := pkgmodel.NewExtractor()
	forms := make([]pkgmodel.FormModel, 0, len(doc.Methods))
	for _, m := range doc.Methods {
		form, err := extractor.ExtractMethod(m.Name, m.Func)
		if err != nil {
			t.Fatalf("extract %s: %v", m.Name, err)
		}
		forms = append(forms, form)
	}
	return forms
}

// Outline flattens the descriptors of forms into one line per field:
//
//	method.path kind [required] [bits=N] [widget=name]
//
// Recursive fields are listed but not expanded.
func Outline(forms ...pkgmodel.FormModel) []string {
	var lines []string
	var visit func(prefix string, field pkgmodel.Field)
	visit = func(prefix string, field pkgmodel.Field) {
		path := prefix + "." + field.Label
		line := path + " " + string(field.Type)
		if field.Required {
			line += " required"
		}
		if field.Bits > 0 {
			line += " bits=" + strconv.Itoa(field.Bits)
		}
		if field.Widget != "" {
			line += " widget=" + field.Widget
		}
		lines = append(lines, line)

		switch field.Type {
		case pkgmodel.FieldTypeVector, pkgmodel.FieldTypeOptional:
			visit(path, withLabel(field.Fields[0], "[]"))
		default:
			for _, child := range field.Fields {
				visit(path, child)
			}
		}
	}
	for _, form := range forms {
		for _, field := range form.Fields {
			visit(form.Method, field)
		}
	}
	return lines
}

func withLabel(field pkgmodel.Field, label string) pkgmodel.Field {
	field.Label = label
	return field
}

// WriteGolden writes lines to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, lines []string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	payload := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// MustReadGoldenLines reads a golden file, skipping blank lines and lines
// starting with '#'.
func MustReadGoldenLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan golden: %v", err)
	}
	return lines
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any, opts ...cmp.Option) string {
	return cmp.Diff(want, got, opts...)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
