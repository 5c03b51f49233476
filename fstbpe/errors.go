package fstbpe

import "errors"

// Fatal error kinds per spec.md §7. None of these are recoverable within
// Process: a caller that sees one has a programming error or a corrupt
// model, not a retryable condition (contrast with a capacity shortfall,
// which is signaled by a return value, not an error — see Process).
var (
	// ErrNotConfigured is returned when Process is called before SetConf,
	// or SetConf was given a nil automaton facade.
	ErrNotConfigured = errors.New("fstbpe: processor not configured")

	// ErrInputTooLarge is returned when the input length exceeds the
	// configured (or default) maximum.
	ErrInputTooLarge = errors.New("fstbpe: input exceeds maximum size")

	// ErrNullInput corresponds to spec.md §7's "null input with non-zero
	// size". A Go slice's length is always consistent with its backing
	// data, so this condition cannot be reached through Process's
	// signature; it is kept for parity with the spec's error taxonomy and
	// for lower-level bindings that reconstruct a slice from a raw
	// pointer and length.
	ErrNullInput = errors.New("fstbpe: null input with non-zero size")

	// ErrCorruptModel is returned when a path sum accumulated at a final
	// state has no associated vocabulary identifier (spec.md §7,
	// "undefined automaton path-sum lookup").
	ErrCorruptModel = errors.New("fstbpe: automaton path sum has no associated identifier")
)
