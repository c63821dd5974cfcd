package coder

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/danmuck/skysync/internal/observability"
	"github.com/danmuck/skysync/internal/protocol"
	"github.com/danmuck/skysync/internal/protocol/frame"
)

const jsonBackendName = "json"

type jsonBackend struct {
	opts   options
	limits frame.Limits

	// scratch holds the body for the duration of one Encode call.
	scratch bytes.Buffer
}

func newJSONBackend(o options) *jsonBackend {
	return &jsonBackend{
		opts: o,
		limits: frame.Limits{
			MaxBodyBytes:      o.maxSize,
			MaxSignatureBytes: o.maxSigSize,
		},
	}
}

func (b *jsonBackend) Decode(payload bool, body, signature []byte) (protocol.Message, error) {
	env := protocol.Envelope{Payload: payload, Signature: string(signature)}
	msg, err := b.decode(env, body)
	if err != nil {
		return nil, b.failure("decode", err)
	}

	logger := b.opts.log()
	event := logger.Debug().
		Str("type", msg.Type().String()).
		Bool("payload", env.Payload).
		Bool("signed", env.Signed()).
		Int("bytes", len(body))
	if u, ok := msg.(protocol.Unknown); ok {
		event = event.Str("wire_type", u.WireType)
	}
	event.Msg("coder.Decode ok")
	if b.opts.metrics {
		observability.RecordCoderMessage(jsonBackendName, "decode", msg.Type().String())
	}
	return msg, nil
}

func (b *jsonBackend) decode(env protocol.Envelope, body []byte) (protocol.Message, error) {
	if len(body) > b.opts.maxSize {
		return nil, ErrTooLarge
	}
	root, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	fields, _ := root.(map[string]any)
	wireType, _ := fields["type"].(string)
	typ := protocol.ParseMessageType(wireType)
	d := newDocument(typ, fields)

	var msg protocol.Message
	switch typ {
	case protocol.MessageInternalStart:
		msg = protocol.InternalStart{Envelope: env}
	case protocol.MessagePing:
		msg = protocol.Ping{Envelope: env, Timeout: d.int("timeout")}
	case protocol.MessageGreeting:
		msg = protocol.Greeting{
			Envelope: env,
			Software: d.string("software"),
			Protocol: d.ints("protocol"),
			Features: d.strings("features"),
		}
	case protocol.MessageStart:
		msg = protocol.Start{
			Envelope: env,
			Software: d.string("software"),
			Protocol: d.int("protocol"),
			Features: d.strings("features"),
			ID:       d.string("id"),
			Access:   d.string("access"),
			Peer:     d.string("peer"),
		}
	case protocol.MessageCannotStart:
		msg = protocol.CannotStart{Envelope: env}
	case protocol.MessageStartTLS:
		msg = protocol.StartTLS{
			Envelope: env,
			Peer:     d.string("peer"),
			Access:   d.access("access"),
		}
	case protocol.MessageIdentity:
		msg = protocol.Identity{
			Envelope: env,
			Name:     d.string("name"),
			Time:     d.int("time"),
		}
	case protocol.MessageKeys:
		ro := d.object("read_only")
		rw := d.object("read_write")
		msg = protocol.Keys{
			Envelope: env,
			Access:   d.access("access"),
			ShareID:  d.string("share_id"),
			ReadOnly: protocol.ReadOnlyKeys{
				PSK: ro.string("psk"),
				RSA: ro.string("rsa"),
			},
			ReadWrite: protocol.ReadWriteKeys{
				PublicRSA: rw.string("public_rsa"),
			},
		}
	case protocol.MessageKeysAcknowledgment:
		msg = protocol.KeysAcknowledgment{Envelope: env}
	case protocol.MessageManifest,
		protocol.MessageGetManifest,
		protocol.MessageManifestCurrent,
		protocol.MessageGet,
		protocol.MessageFileData,
		protocol.MessageUpdate,
		protocol.MessageMove,
		protocol.MessageUnknown:
		return unknownMessage(env, wireType, root)
	default:
		return unknownMessage(env, wireType, root)
	}

	if err := d.Err(); err != nil {
		return nil, err
	}
	return msg, nil
}

// unknownMessage keeps the document, re-serialized, for diagnostics.
func unknownMessage(env protocol.Envelope, wireType string, root any) (protocol.Message, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(root); err != nil {
		return nil, ErrParse
	}
	return protocol.Unknown{
		Envelope: env,
		WireType: wireType,
		Content:  strings.TrimSuffix(buf.String(), "\n"),
	}, nil
}

func (b *jsonBackend) Encode(msg protocol.Message) (string, error) {
	defer b.scratch.Reset()

	msg, ok := concrete(msg)
	if !ok {
		return "", b.failure("encode", ErrUnsupported)
	}
	doc, err := jsonDocumentOf(msg)
	if err != nil {
		return "", b.failure("encode", err)
	}

	b.scratch.Reset()
	enc := json.NewEncoder(&b.scratch)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", b.failure("encode", err)
	}
	body := bytes.TrimSuffix(b.scratch.Bytes(), []byte{'\n'})
	if len(body) > b.opts.maxSize {
		return "", b.failure("encode", ErrTooLarge)
	}

	env := protocol.EnvelopeOf(msg)
	var out strings.Builder
	out.Grow(len(body) + len(env.Signature) + 16)
	f := frame.Frame{Payload: env.Payload, Body: body, Signature: []byte(env.Signature)}
	if err := frame.WriteFrame(&out, f, b.limits); err != nil {
		return "", b.failure("encode", err)
	}

	logger := b.opts.log()
	logger.Debug().
		Str("type", msg.Type().String()).
		Bool("payload", env.Payload).
		Bool("signed", env.Signed()).
		Int("bytes", len(body)).
		Msg("coder.Encode ok")
	if b.opts.metrics {
		observability.RecordCoderMessage(jsonBackendName, "encode", msg.Type().String())
		observability.RecordEncodedSize(jsonBackendName, msg.Type().String(), len(body))
	}
	return out.String(), nil
}

func (b *jsonBackend) failure(op string, err error) error {
	logger := b.opts.log()
	logger.Warn().Err(err).Str("op", op).Msg("coder failure")
	if b.opts.metrics {
		observability.RecordCoderError(jsonBackendName, op, reasonOf(err))
	}
	return &Error{Op: op, Backend: jsonBackendName, Err: err}
}
