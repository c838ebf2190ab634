// Package model exposes the structural field descriptors derived from
// Candid types. A Field carries the editor-facing kind, a component hint,
// the default value in generic form, a validator wrapping the type's
// covariance check, and its children. Recursive types are described
// lazily: the descriptor holds an Extract hook that derives the body on
// demand, so cyclic types never expand during extraction. Descriptors hold
// no editor state and can be reused by any number of editors.
package model
