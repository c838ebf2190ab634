// Package idl models the Candid type system as an immutable, closed set of
// tagged variants and provides the double-dispatch entry point every pass in
// this module builds on.
//
// Types expose three things: a display Name, a Kind tag and an acceptance
// predicate (Covariant) that reports whether a generic value inhabits the
// type. Passes are written as Visitor dispatch tables and invoked with
// Accept; a Visitor only fills the cases it cares about and the rest fall
// back through Number, Primitive or Construct to the generic Type case.
//
// Self-referential types are declared through a Registry:
//
//	reg := idl.NewRegistry()
//	list := reg.Rec("List")
//	reg.MustDefine("List", idl.Opt(idl.Record(
//		idl.Field("head", idl.Nat),
//		idl.Field("tail", list),
//	)))
//
// A RecursiveType only holds the registry handle and its name; the body is
// looked up on demand and never unrolled eagerly.
//
// Generic values use the following Go representations: nil (null), bool,
// string, float64, int64 for integers whose declared width is at most 32
// bits, *big.Int for wider and unbounded integers, []any for tuples, vectors
// and optionals (length 0 or 1), map[string]any for records and variants
// (exactly one key), principal.Principal for principals and services, and
// FuncRef for function references.
package idl
