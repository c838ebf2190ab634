// Package orchestrator wires the type document -> extractor -> decorators ->
// editor composer pipeline, providing dependency injection friendly helpers
// for consumers that prefer a single entry point.
package orchestrator
