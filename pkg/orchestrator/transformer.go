package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-candidform/pkg/model"
)

// Transformer mutates a FormModel before decorators run. Implementations can
// relabel fields, pin widgets, or perform arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// PresetTransformer applies declarative overrides loaded from a JSON or YAML
// document, keyed by method name. Field keys are dotted descriptor labels
// starting at the argument index; "[]" steps into the element of a vector or
// optional:
//
//	{
//	  "methods": {
//	    "transfer": {
//	      "description": "Move tokens",
//	      "fields": {
//	        "0": {"display": "Sender"},
//	        "0.subaccount.[]": {"widget": "text-input"}
//	      }
//	    }
//	  }
//	}
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Methods map[string]methodPreset `json:"methods" yaml:"methods"`
}

type methodPreset struct {
	Description string                 `json:"description" yaml:"description"`
	Fields      map[string]fieldPreset `json:"fields" yaml:"fields"`
}

type fieldPreset struct {
	Display string `json:"display" yaml:"display"`
	Widget  string `json:"widget" yaml:"widget"`
}

// NewPresetTransformer constructs a transformer from raw JSON or YAML bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		document = presetDocument{}
		if yerr := yaml.Unmarshal(data, &document); yerr != nil {
			return nil, fmt.Errorf("preset transformer: parse document: %w", yerr)
		}
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches for form.Method. Methods without a preset
// are left untouched.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	preset, ok := t.document.Methods[form.Method]
	if !ok {
		return nil
	}
	if preset.Description != "" {
		form.Description = preset.Description
	}
	for path, patch := range preset.Fields {
		field := findFieldByPath(form.Fields, path)
		if field == nil {
			return fmt.Errorf("preset transformer: method %s: field %q not found", form.Method, path)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPreset) {
	if patch.Display != "" {
		field.Display = patch.Display
	}
	if patch.Widget != "" {
		field.Widget = patch.Widget
	}
}

func findFieldByPath(fields []model.Field, path string) *model.Field {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return walkFieldsByPath(fields, strings.Split(path, "."))
}

func walkFieldsByPath(fields []model.Field, segments []string) *model.Field {
	if len(segments) == 0 {
		return nil
	}
	head := segments[0]
	for idx := range fields {
		field := &fields[idx]
		if field.Label != head {
			continue
		}
		if len(segments) == 1 {
			return field
		}
		if segments[1] == "[]" {
			return descendElement(field, segments[2:])
		}
		return walkFieldsByPath(field.Fields, segments[1:])
	}
	return nil
}

func descendElement(field *model.Field, segments []string) *model.Field {
	if field.Type != model.FieldTypeVector && field.Type != model.FieldTypeOptional {
		return nil
	}
	elem := &field.Fields[0]
	if len(segments) == 0 {
		return elem
	}
	if segments[0] == "[]" {
		return descendElement(elem, segments[1:])
	}
	return walkFieldsByPath(elem.Fields, segments)
}
