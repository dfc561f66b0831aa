package llm

import "fmt"

// ErrorKind classifies gateway failures for logging. Callers treat both kinds
// uniformly: no automatic retry.
type ErrorKind string

const (
	// KindConfiguration marks failures detected before any network call,
	// such as a missing API key.
	KindConfiguration ErrorKind = "configuration"
	// KindTransient marks network errors, non-2xx responses, and malformed
	// response envelopes.
	KindTransient ErrorKind = "transient"
)

// GatewayError is the single failure type surfaced by model clients.
type GatewayError struct {
	Kind ErrorKind
	Err  error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("llm call failed (%s): %v", e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func configErr(format string, args ...any) *GatewayError {
	return &GatewayError{Kind: KindConfiguration, Err: fmt.Errorf(format, args...)}
}

func transientErr(format string, args ...any) *GatewayError {
	return &GatewayError{Kind: KindTransient, Err: fmt.Errorf(format, args...)}
}
