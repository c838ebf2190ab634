// Package transcode converts between flat text and generic values. Parse is
// strict and deterministic; Synthesize produces a pseudo-random value that
// satisfies the type without consulting any input. ParseValue applies the
// selection policy between the two: synthesis only happens in random mode
// and only for empty input.
package transcode
