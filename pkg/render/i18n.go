package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-candidform/pkg/model"
)

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler picks the text used when a key cannot be
// translated. args carries {"default": fallback}.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// ErrMissingTranslator is passed to the missing handler when no translator
// is configured.
var ErrMissingTranslator = errors.New("render: translator is not configured")

var errMissingTranslation = errors.New("render: missing translation")

// MapTranslator is an in-memory catalogue keyed by locale, then message key.
type MapTranslator map[string]map[string]string

// Translate implements Translator.
func (m MapTranslator) Translate(locale, key string, _ ...any) (string, error) {
	if msg, ok := m[locale][key]; ok {
		return msg, nil
	}
	return "", errMissingTranslation
}

// Localizer is a model.Decorator translating display text. Field keys are
// the method name followed by the dotted label path, with "[]" for the
// element of a vector or optional ("transfer.0.owner", "put.0.[]"). The
// method description uses "<method>.description". Bodies of recursive
// fields are localized when expanded, under the key of the recursive field.
type Localizer struct {
	Locale     string
	Translator Translator
	OnMissing  MissingTranslationHandler
}

// Decorate implements model.Decorator.
func (l Localizer) Decorate(form *model.FormModel) error {
	if form == nil {
		return nil
	}
	if l.OnMissing == nil {
		l.OnMissing = missingTranslationDefault
	}
	if form.Description != "" {
		form.Description = l.translate(form.Method+".description", form.Description)
	}
	for i := range form.Fields {
		l.localizeField(&form.Fields[i], form.Method+"."+form.Fields[i].Label)
	}
	return nil
}

func (l Localizer) localizeField(field *model.Field, key string) {
	field.Display = l.translate(key, field.Display)

	switch field.Type {
	case model.FieldTypeVector, model.FieldTypeOptional:
		// elements fall back to their container's text
		elem := &field.Fields[0]
		elem.Display = field.Display
		l.localizeField(elem, key+".[]")
	case model.FieldTypeRecursive:
		if extract := field.Extract; extract != nil {
			field.Extract = func() (model.Field, error) {
				body, err := extract()
				if err != nil {
					return model.Field{}, err
				}
				l.localizeField(&body, key)
				return body, nil
			}
		}
	default:
		for i := range field.Fields {
			l.localizeField(&field.Fields[i], key+"."+field.Fields[i].Label)
		}
	}
}

func (l Localizer) translate(key, fallback string) string {
	if l.Translator == nil {
		return l.OnMissing(l.Locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}
	result, err := l.Translator.Translate(l.Locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return l.OnMissing(l.Locale, key, []any{map[string]any{"default": fallback}}, err)
}

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if params, ok := args[0].(map[string]any); ok {
			if fallback, ok := params["default"].(string); ok {
				return fallback
			}
		}
	}
	return key
}
