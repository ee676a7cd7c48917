package dispatch

import "fmt"

// Kind is the closed classification every operation outcome falls into.
// Callers branch on these; new kinds are a breaking change.
type Kind string

const (
	KindSuccess            Kind = "Success"
	KindValidationError    Kind = "ValidationError"
	KindNotFound           Kind = "NotFound"
	KindAuthError          Kind = "AuthError"
	KindConfigurationError Kind = "ConfigurationError"
	KindRemoteUnavailable  Kind = "RemoteUnavailable"
	KindUnexpected         Kind = "Unexpected"
)

// Error is an already-classified failure. Handlers return one when they know
// the category better than the translator could infer it; the translator
// passes it through unchanged, so classification happens exactly once.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewValidationError reports caller-fixable bad input.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidationError, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// NewConfigurationError reports missing or invalid adapter configuration.
func NewConfigurationError(format string, args ...any) *Error {
	return &Error{Kind: KindConfigurationError, Message: fmt.Sprintf(format, args...)}
}

// DuplicateOperationError reports a second registration under a taken name.
// This is a startup-time programming error, not a dispatch outcome.
type DuplicateOperationError struct {
	Name string
}

func (e *DuplicateOperationError) Error() string {
	return fmt.Sprintf("operation %q is already registered", e.Name)
}

// UnknownOperationError reports dispatch of a name no descriptor claims.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation %q", e.Name)
}
