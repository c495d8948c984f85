package transport

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call so callers can pick a recovery policy
// without string-matching messages.
type Kind int

const (
	// KindNetwork means the request produced no response at all.
	KindNetwork Kind = iota
	// KindAuthentication means the server rejected the bearer token (401).
	KindAuthentication
	// KindValidation means the server rejected the request with a 4xx
	// business-rule reason.
	KindValidation
	// KindServer means the server answered 5xx.
	KindServer
	// KindProtocol means a 2xx response broke the contract the caller
	// relies on (missing required field, undecodable body).
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuthentication:
		return "authentication"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindProtocol:
		return "protocol"
	}
	return "unknown"
}

type Error struct {
	Kind    Kind
	Status  int // 0 when no response was received
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s failure (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failure: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewProtocolViolation is used by resource clients when a successful
// response is missing a field their contract requires.
func NewProtocolViolation(message string) *Error {
	return &Error{Kind: KindProtocol, Message: message}
}

// IsKind reports whether err is a transport error of the given kind.
func IsKind(err error, k Kind) bool {
	var te *Error
	return errors.As(err, &te) && te.Kind == k
}
