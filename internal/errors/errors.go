// Package errors provides structured error types for simplechat.
// These errors carry the operation that failed and a coarse category, which
// the UI uses to decide whether a failure is worth surfacing.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindNetwork
	KindConfig
	KindTimeout
	KindStatus   // server answered with a non-200 status
	KindDecode   // failure while handling a response body
	KindCanceled // request superseded or aborted by the client
	KindClosed   // socket channel is gone
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindNetwork:
		return "network error"
	case KindConfig:
		return "configuration error"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "bad status"
	case KindDecode:
		return "decode error"
	case KindCanceled:
		return "canceled"
	case KindClosed:
		return "connection closed"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for simplechat.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
	Status  int    // HTTP status for KindStatus errors
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...any) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsCanceled reports whether err means the client gave up on the request,
// either through a KindCanceled error or a canceled context.
func IsCanceled(err error) bool {
	return Is(err, KindCanceled) || errors.Is(err, context.Canceled)
}

// Request errors

// BadStatus reports a response whose HTTP status is not 200.
func BadStatus(endpoint string, status int, body string) error {
	e := E(Op("transport.Post"), KindStatus, fmt.Sprintf("%s returned status %d: %s", endpoint, status, body)).(*Error)
	e.Status = status
	return e
}

// DecodeFailed reports a failure while handling a response.
func DecodeFailed(endpoint string, err error) error {
	return E(Op("transport.Decode"), KindDecode, fmt.Sprintf("handling response from %s", endpoint), err)
}

// RequestFailed reports a failure to deliver a request at all.
func RequestFailed(endpoint string, err error) error {
	if errors.Is(err, context.Canceled) {
		return E(Op("transport.Send"), KindCanceled, fmt.Sprintf("request to %s canceled", endpoint), err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return E(Op("transport.Send"), KindTimeout, fmt.Sprintf("request to %s timed out", endpoint), err)
	}
	return E(Op("transport.Send"), KindNetwork, fmt.Sprintf("request to %s failed", endpoint), err)
}

// ConnectionClosed reports a request issued on, or pending on, a closed socket.
func ConnectionClosed(event string) error {
	return E(Op("transport.Socket"), KindClosed, fmt.Sprintf("socket closed while waiting for %s", event))
}

// Config errors

func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}
