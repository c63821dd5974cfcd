package coder

import (
	"errors"
	"fmt"

	"github.com/danmuck/skysync/internal/protocol"
	"github.com/danmuck/skysync/internal/protocol/frame"
)

var (
	ErrParse          = errors.New("coder: malformed message body")
	ErrField          = errors.New("coder: invalid message field")
	ErrUnsupported    = errors.New("coder: unsupported operation")
	ErrTooLarge       = errors.New("coder: message too large")
	ErrUnknownBackend = errors.New("coder: unknown backend")
)

// FieldError reports a required field that is missing or has the wrong shape.
type FieldError struct {
	MessageType protocol.MessageType
	Field       string
	Reason      string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("coder: message_type=%s field=%s: %s", e.MessageType, e.Field, e.Reason)
}

func (e FieldError) Unwrap() error { return ErrField }

// Error is the only error type Coder returns. Err is one of the package
// sentinels, a FieldError, or a frame error, never a parser error.
type Error struct {
	Op      string
	Backend string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrField):
		return "field"
	case errors.Is(err, ErrUnsupported):
		return "unsupported"
	case errors.Is(err, ErrTooLarge):
		return "too_large"
	case errors.Is(err, frame.ErrInvalidSignature), errors.Is(err, frame.ErrSignatureTooLarge):
		return "signature"
	default:
		return "other"
	}
}
