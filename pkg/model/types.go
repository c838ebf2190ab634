package model

import internalmodel "github.com/goliatone/go-candidform/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeText      = internalmodel.FieldTypeText
	FieldTypeNumber    = internalmodel.FieldTypeNumber
	FieldTypeCheckbox  = internalmodel.FieldTypeCheckbox
	FieldTypeNull      = internalmodel.FieldTypeNull
	FieldTypeRecord    = internalmodel.FieldTypeRecord
	FieldTypeTuple     = internalmodel.FieldTypeTuple
	FieldTypeVariant   = internalmodel.FieldTypeVariant
	FieldTypeVector    = internalmodel.FieldTypeVector
	FieldTypeOptional  = internalmodel.FieldTypeOptional
	FieldTypeRecursive = internalmodel.FieldTypeRecursive
	FieldTypePrincipal = internalmodel.FieldTypePrincipal
)

type Component = internalmodel.Component

const (
	ComponentInput    = internalmodel.ComponentInput
	ComponentSpan     = internalmodel.ComponentSpan
	ComponentFieldset = internalmodel.ComponentFieldset
)

type Validator = internalmodel.Validator
type Field = internalmodel.Field
type FormModel = internalmodel.FormModel

// DefaultLabeler is the label-to-display function used when none is set.
var DefaultLabeler = internalmodel.DefaultLabeler
