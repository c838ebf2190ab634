package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-candidform/pkg/idl"
	"github.com/goliatone/go-candidform/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetCheckbox  = "checkbox"
	WidgetTagSelect = "tag-select"
	WidgetRepeater  = "repeater"
	WidgetToggle    = "toggle"
	WidgetPrincipal = "principal-input"
	WidgetBigNumber = "big-number-input"
	WidgetNumber    = "number-input"
	WidgetFieldset  = "fieldset"
	WidgetRecursive = "recursive"
	WidgetLabel     = "label"
	WidgetTextInput = "text-input"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit Widget on the
// field is honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := strings.TrimSpace(field.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate sets Widget on every field of the form that has none. Bodies of
// recursive fields are extracted later and are resolved when instantiated.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	form.Fields = r.DecorateFields(form.Fields)
	return nil
}

// DecorateFields returns decorated copies of fields.
func (r *Registry) DecorateFields(fields []model.Field) []model.Field {
	if len(fields) == 0 {
		return fields
	}
	decorated := make([]model.Field, len(fields))
	for idx, field := range fields {
		decorated[idx] = r.decorateField(field)
	}
	return decorated
}

func (r *Registry) decorateField(field model.Field) model.Field {
	if widget, ok := r.Resolve(field); ok && field.Widget == "" {
		field.Widget = widget
	}
	if len(field.Fields) > 0 {
		field.Fields = r.DecorateFields(field.Fields)
	}
	return field
}

func (r *Registry) registerBuiltins() {
	byType := func(types ...model.FieldType) Matcher {
		return func(field model.Field) bool {
			for _, t := range types {
				if field.Type == t {
					return true
				}
			}
			return false
		}
	}

	r.Register(WidgetCheckbox, 90, byType(model.FieldTypeCheckbox))
	r.Register(WidgetTagSelect, 80, byType(model.FieldTypeVariant))
	r.Register(WidgetRepeater, 70, byType(model.FieldTypeVector))
	r.Register(WidgetToggle, 70, byType(model.FieldTypeOptional))
	r.Register(WidgetPrincipal, 60, byType(model.FieldTypePrincipal))

	r.Register(WidgetBigNumber, 55, func(field model.Field) bool {
		if field.Type != model.FieldTypeNumber {
			return false
		}
		if _, float := field.Source.(*idl.FloatType); float {
			return false
		}
		return field.Bits == 0 || field.Bits > idl.NativeBits
	})
	r.Register(WidgetNumber, 50, byType(model.FieldTypeNumber))

	r.Register(WidgetFieldset, 40, byType(model.FieldTypeRecord, model.FieldTypeTuple))
	r.Register(WidgetRecursive, 30, byType(model.FieldTypeRecursive))
	r.Register(WidgetLabel, 20, byType(model.FieldTypeNull))
	r.Register(WidgetTextInput, 10, byType(model.FieldTypeText))
}
