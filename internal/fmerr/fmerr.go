// Package fmerr defines the closed error taxonomy shared by every core
// package. All fallible core operations return a Go error that is, or
// wraps, an *Error carrying one of the Kind values below.
package fmerr

import "fmt"

// Kind is the closed set of error categories the core can produce.
type Kind int

const (
	// Aborted: a transaction was aborted before commit.
	Aborted Kind = iota
	// AlreadyPresent: name collision on add.
	AlreadyPresent
	// Inconsistent: post-commit invariant violation.
	Inconsistent
	// MissingFeature: reference to a name not in the model.
	MissingFeature
	// MissingParent: parent required by a modification does not exist.
	MissingParent
	// MissingModel: operation needs a model but none is bound.
	MissingModel
	// Generic: catch-all for textual-parse diagnostics.
	Generic
	// NotImplemented: optional path not yet wired in the SMT translator.
	NotImplemented
	// NotSupported: construct the translator intentionally rejects.
	NotSupported
	// Unsat: solver reports unsatisfiable when the caller expected a model.
	Unsat
	// NotAllConstraintsProcessed: a constraint mentions a feature not yet
	// bound in the solver.
	NotAllConstraintsProcessed
	// ParentNotPresent: SMT-translator variant of MissingParent.
	ParentNotPresent
)

var names = [...]string{
	"Aborted",
	"AlreadyPresent",
	"Inconsistent",
	"MissingFeature",
	"MissingParent",
	"MissingModel",
	"Error",
	"NotImplemented",
	"NotSupported",
	"Unsat",
	"NotAllConstraintsProcessed",
	"ParentNotPresent",
}

// String returns the canonical name of the error kind.
func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(names) {
		return "Unknown"
	}
	return names[k]
}

// Error is the concrete error type returned by core operations. It always
// carries a Kind so callers can switch on category without string matching.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

// New builds an *Error with no underlying cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds an *Error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error that wraps an underlying cause.
func Wrap(kind Kind, cause error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Msg)
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, fmerr.New(fmerr.MissingFeature, "")) against a
// zero-message sentinel, or more idiomatically use KindOf below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf extracts the Kind from err if it is (or wraps) an *Error, and
// reports ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if err == nil {
		return 0, false
	}
	if e, ok := err.(*Error); ok {
		return e.Kind, true
	}
	if ok := asError(err, &fe); ok {
		return fe.Kind, true
	}
	return 0, false
}

// asError is a small local errors.As to avoid importing errors solely for
// this one helper in a leaf package with no other use of it.
func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
