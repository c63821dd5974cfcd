package protocol

import (
	"errors"
	"testing"
)

func TestMessageTypeWireNamesRoundTrip(t *testing.T) {
	for typ := MessageInternalStart; typ <= MessageMove; typ++ {
		name, err := typ.WireName()
		if err != nil {
			t.Fatalf("wire name for %d: %v", typ, err)
		}
		if got := ParseMessageType(name); got != typ {
			t.Fatalf("parse %q: got %v want %v", name, got, typ)
		}
	}
}

func TestParseMessageTypeUnrecognizedIsUnknown(t *testing.T) {
	for _, name := range []string{"", "frobnicate", "PING", "unknown"} {
		if got := ParseMessageType(name); got != MessageUnknown {
			t.Fatalf("parse %q: expected MessageUnknown, got %v", name, got)
		}
	}
}

func TestUnknownHasNoWireName(t *testing.T) {
	_, err := MessageUnknown.WireName()
	if !errors.Is(err, ErrNoWireName) {
		t.Fatalf("expected ErrNoWireName, got %v", err)
	}
	if MessageUnknown.String() != "unknown" {
		t.Fatalf("unexpected string: %q", MessageUnknown.String())
	}
}

func TestAccessLevelRoundTrip(t *testing.T) {
	for _, a := range []AccessLevel{AccessReadOnly, AccessReadWrite, AccessUntrusted} {
		name, err := a.WireName()
		if err != nil {
			t.Fatalf("wire name for %d: %v", a, err)
		}
		got, err := ParseAccessLevel(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if got != a {
			t.Fatalf("parse %q: got %v want %v", name, got, a)
		}
	}
}

func TestAccessLevelInvalid(t *testing.T) {
	if _, err := ParseAccessLevel("root"); !errors.Is(err, ErrInvalidAccess) {
		t.Fatalf("expected ErrInvalidAccess, got %v", err)
	}
	if _, err := AccessUnknown.WireName(); !errors.Is(err, ErrInvalidAccess) {
		t.Fatalf("expected ErrInvalidAccess, got %v", err)
	}
}

func TestEnvelopeOf(t *testing.T) {
	msg := Ping{Envelope: Envelope{Payload: true, Signature: "sig"}, Timeout: 5}
	env := EnvelopeOf(msg)
	if !env.Payload || !env.Signed() || env.Signature != "sig" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if EnvelopeOf(CannotStart{}).Signed() {
		t.Fatalf("expected unsigned envelope")
	}
}
