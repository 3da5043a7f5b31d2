package dispatch

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a failed invocation.
type Kind string

const (
	// KindValidation marks a missing or invalid required parameter.
	KindValidation Kind = "validation"
	// KindNotFound marks an unknown provider, operation, path, or memory key.
	KindNotFound Kind = "not_found"
	// KindAccessDenied marks a sandbox rejection.
	KindAccessDenied Kind = "access_denied"
	// KindUpstream marks a handler-level failure or network error.
	KindUpstream Kind = "upstream"
)

// Invocation is a fully resolved (provider, operation, parameters) triple
// ready for dispatch.
type Invocation struct {
	Provider  string         `json:"provider"`
	Operation string         `json:"operation"`
	Params    map[string]any `json:"parameters"`
}

// ResultError is the single error descriptor a failed Result carries.
type ResultError struct {
	Kind    Kind
	Message string
}

func (e *ResultError) Error() string { return e.Message }

// Result is the outcome of one provider invocation: either operation-specific
// data or a single error descriptor, never both.
type Result struct {
	Data map[string]any
	Err  *ResultError
}

// OK returns a success result carrying the given fields.
func OK(data map[string]any) Result {
	return Result{Data: data}
}

// Errorf returns an error result of the given kind.
func Errorf(kind Kind, format string, args ...any) Result {
	return Result{Err: &ResultError{Kind: kind, Message: fmt.Sprintf(format, args...)}}
}

// IsErr reports whether the result is an error.
func (r Result) IsErr() bool { return r.Err != nil }

// ErrKind returns the error kind as a string, or "" for success results.
func (r Result) ErrKind() string {
	if r.Err == nil {
		return ""
	}
	return string(r.Err.Kind)
}

// MarshalJSON renders success results as their bare data object and error
// results as {"error": ..., "error_kind": ...}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(map[string]string{
			"error":      r.Err.Message,
			"error_kind": string(r.Err.Kind),
		})
	}
	if r.Data == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Data)
}
