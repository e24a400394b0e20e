package assistant

import "fmt"

// ErrorKind classifies a failed function call. It stays on the Go side;
// the model only sees the message.
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindNotFound        ErrorKind = "not_found"
	KindUnavailable     ErrorKind = "unavailable"
	KindInvalidState    ErrorKind = "invalid_state"
	KindUnknownFunction ErrorKind = "unknown_function"
	KindInternal        ErrorKind = "internal"
)

// DispatchError is an expected function-call failure.
type DispatchError struct {
	Kind    ErrorKind
	Message string
}

func (e *DispatchError) Error() string {
	return e.Message
}

func dispatchErr(kind ErrorKind, msg string) *DispatchError {
	return &DispatchError{Kind: kind, Message: msg}
}

// ValidationError rejects a request before any model call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UpstreamError wraps a failure of the embedding or generation provider.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
