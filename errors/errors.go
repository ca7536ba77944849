package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse  Phase = "parse"  // WAT/WIT parsing
	PhaseLoad   Phase = "load"   // module compilation and loading
	PhaseLink   Phase = "link"   // export resolution at instantiation
	PhaseCall   Phase = "call"   // invoking a foreign function
	PhaseDecode Phase = "decode" // wire values back to Go
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData    Kind = "invalid_data"
	KindInvalidVariant Kind = "invalid_variant"
	KindMissingExport  Kind = "missing_export"
	KindNotFound       Kind = "not_found"
	KindLengthMismatch Kind = "length_mismatch"
	KindInstantiation  Kind = "instantiation"
)

// Error is the structured error type used throughout the host
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for the patterns the host actually hits

// InvalidDiscriminant creates an invalid discriminant error for variant decoding
func InvalidDiscriminant(phase Phase, disc uint32, maxValid uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Detail: fmt.Sprintf("discriminant %d out of range (max %d)", disc, maxValid),
		Value:  disc,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// LengthMismatch reports a foreign call that broke the length-preservation contract
func LengthMismatch(phase Phase, fn string, got, want int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLengthMismatch,
		Path:   []string{fn},
		Detail: fmt.Sprintf("returned %d elements, want %d", got, want),
		Value:  got,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// MissingExportsError is returned when linking fails because the guest does
// not provide every export the contract declares.
type MissingExportsError struct {
	Exports []string
}

// NewMissingExportsError creates an error from the list of unresolved export names
func NewMissingExportsError(exports []string) *MissingExportsError {
	return &MissingExportsError{Exports: exports}
}

func (e *MissingExportsError) Error() string {
	if len(e.Exports) == 0 {
		return "[link] missing_export: no exports specified"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "missing %d guest export(s):", len(e.Exports))
	for _, name := range e.Exports {
		b.WriteString("\n  - ")
		b.WriteString(name)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *MissingExportsError) Is(target error) bool {
	_, ok := target.(*MissingExportsError)
	return ok
}
