package coder

import (
	"fmt"
	"strings"

	"github.com/danmuck/skysync/internal/observability"
	"github.com/danmuck/skysync/internal/protocol"
	"github.com/danmuck/skysync/internal/protocol/frame"
	"github.com/rs/zerolog"
)

// Kind selects a wire format backend.
type Kind int

const (
	KindJSON Kind = iota + 1
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind resolves a backend name such as "json".
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return KindJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

type backend interface {
	Decode(payload bool, body, signature []byte) (protocol.Message, error)
	Encode(msg protocol.Message) (string, error)
}

type options struct {
	maxSize    int
	maxSigSize int
	logger     *zerolog.Logger
	metrics    bool
}

// Option customizes a Coder.
type Option func(*options)

// WithMaxSize bounds encoded and decoded bodies. Values above
// protocol.MaxMessageSize are clamped.
func WithMaxSize(n int) Option {
	return func(o *options) {
		if n > 0 && n <= protocol.MaxMessageSize {
			o.maxSize = n
		}
	}
}

// WithMaxSignatureSize bounds the signature line written by Encode.
func WithMaxSignatureSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSigSize = n
		}
	}
}

// WithLogger pins the logger. Without it the coder logs through the global
// logger as configured at the time of each call.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = &logger }
}

func WithMetrics(enabled bool) Option {
	return func(o *options) { o.metrics = enabled }
}

func defaultOptions() options {
	return options{
		maxSize:    protocol.MaxMessageSize,
		maxSigSize: frame.DefaultLimits().MaxSignatureBytes,
		metrics:    true,
	}
}

func (o options) log() zerolog.Logger {
	if o.logger != nil {
		return *o.logger
	}
	return observability.Component("coder")
}

// Coder is the entry point for message encode and decode.
type Coder struct {
	kind Kind
	b    backend
}

// New builds a Coder for kind. An unimplemented kind fails here rather than
// on first use.
func New(kind Kind, opts ...Option) (*Coder, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var b backend
	switch kind {
	case KindJSON:
		b = newJSONBackend(o)
	default:
		return nil, &Error{Op: "new", Backend: kind.String(), Err: ErrUnknownBackend}
	}
	return &Coder{kind: kind, b: b}, nil
}

func (c *Coder) Kind() Kind { return c.kind }

// Decode builds a message from a frame body. payload and signature come from
// the frame, not the body; an empty signature means the frame was unsigned.
// Failures are always *Error and never return a partial message.
func (c *Coder) Decode(payload bool, body, signature []byte) (protocol.Message, error) {
	return c.b.Decode(payload, body, signature)
}

// Encode returns the complete wire frame for msg. Unknown and
// KeysAcknowledgment messages fail with ErrUnsupported.
func (c *Coder) Encode(msg protocol.Message) (string, error) {
	return c.b.Encode(msg)
}
