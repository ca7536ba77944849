// Package errors provides structured errors for the foreign boundary.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category), so callers can match them with errors.Is instead of string
// comparison:
//
//	err := errors.InvalidDiscriminant(errors.PhaseDecode, 7, 3)
//	err := errors.NotFound(errors.PhaseCall, "function", "entry-point")
//
// MissingExportsError aggregates every unresolved foreign symbol found at
// link time. It is the program's only fatal error class: a guest that does
// not export the declared contract cannot be called at all.
package errors
