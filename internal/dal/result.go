// Package dal is the data access boundary the front end talks to. Every
// operation returns a Result instead of an error: failures are logged and
// classified here and never unwind past the boundary.
package dal

import "fmt"

// Reason classifies the outcome of an operation.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNotFound           Reason = "not_found"
	ReasonCredentialMismatch Reason = "credential_mismatch"
	ReasonStorage            Reason = "storage"
	ReasonStoreUnavailable   Reason = "store_unavailable"
	ReasonInvalid            Reason = "invalid"
)

// Result carries a value plus an explicit success/failure discriminant.
type Result[T any] struct {
	Value   T
	Reason  Reason
	Message string
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool { return r.Reason == ReasonNone }

// Err converts a failed result into an error for callers that prefer one.
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Reason: r.Reason, Message: r.Message}
}

// Error is the error form of a failed Result.
type Error struct {
	Reason  Reason
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func ok[T any](v T, msg string) Result[T] {
	return Result[T]{Value: v, Message: msg}
}

func fail[T any](reason Reason, msg string) Result[T] {
	return Result[T]{Reason: reason, Message: msg}
}
