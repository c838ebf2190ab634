// Package typedoc loads textual interface documents (JSON or YAML) into idl
// types. A document names a service, declares named types that may refer to
// each other recursively, and lists methods in declaration order:
//
//	service: ledger
//	types:
//	  Account:
//	    record: {owner: principal, subaccount: {opt: {vec: nat8}}}
//	  List:
//	    opt: {record: {head: nat, tail: List}}
//	methods:
//	  balance:
//	    args: [Account]
//	    returns: [nat]
//	    modes: [query]
//
// Key order is significant: record fields, variant alternatives and methods
// keep the order they are written in, for JSON as well as YAML.
package typedoc
