package frame

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPrefixTable(t *testing.T) {
	cases := []struct {
		payload, signed bool
		want            byte
	}{
		{false, false, 'm'},
		{true, false, '!'},
		{false, true, 's'},
		{true, true, '$'},
	}
	for _, tc := range cases {
		got := Prefix(tc.payload, tc.signed)
		if got != tc.want {
			t.Fatalf("prefix(%v,%v): got %q want %q", tc.payload, tc.signed, got, tc.want)
		}
		payload, signed, err := ParsePrefix(got)
		if err != nil {
			t.Fatalf("parse prefix %q: %v", got, err)
		}
		if payload != tc.payload || signed != tc.signed {
			t.Fatalf("parse prefix %q: got (%v,%v)", got, payload, signed)
		}
	}
	if _, _, err := ParsePrefix('x'); !errors.Is(err, ErrInvalidPrefix) {
		t.Fatalf("expected ErrInvalidPrefix, got %v", err)
	}
}

func TestWriteFrameLayout(t *testing.T) {
	var buf bytes.Buffer
	body := []byte(`{"type":"cannot_start"}`)
	if err := WriteFrame(&buf, Frame{Payload: true, Body: body, Signature: []byte("sig123")}, DefaultLimits()); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	want := "$23:{\"type\":\"cannot_start\"}\nsig123\n"
	if buf.String() != want {
		t.Fatalf("unexpected frame: %q", buf.String())
	}
}

func TestReadWriteFrameRoundTrip(t *testing.T) {
	in := []Frame{
		{Body: []byte(`{"type":"ping","timeout":30}`)},
		{Payload: true, Body: []byte(`{"type":"get"}`)},
		{Body: []byte(`{}`), Signature: []byte("abc")},
		{Payload: true, Body: []byte("x\ny"), Signature: []byte("def")},
	}
	var buf bytes.Buffer
	for _, f := range in {
		if err := WriteFrame(&buf, f, DefaultLimits()); err != nil {
			t.Fatalf("write frame: %v", err)
		}
	}

	r := NewReader(&buf, DefaultLimits())
	for i, want := range in {
		got, err := r.ReadFrame()
		if err != nil {
			t.Fatalf("read frame %d: %v", i, err)
		}
		if got.Payload != want.Payload || !bytes.Equal(got.Body, want.Body) || !bytes.Equal(got.Signature, want.Signature) {
			t.Fatalf("frame %d mismatch: got=%+v want=%+v", i, got, want)
		}
	}
	if _, err := r.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestReadFrameMalformed(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"bad prefix", "x2:{}\n", ErrInvalidPrefix},
		{"no digits", "m:{}\n", ErrInvalidLength},
		{"non digit length", "m2a:{}\n", ErrInvalidLength},
		{"short body", "m10:{}\n", ErrTruncated},
		{"missing newline", "m2:{}x", ErrMissingNewline},
		{"missing signature", "s2:{}\n", ErrTruncated},
		{"empty signature", "s2:{}\n\n", ErrInvalidSignature},
		{"length overflow", "m99999999999:{}\n", ErrInvalidLength},
	}
	for _, tc := range cases {
		r := NewReader(strings.NewReader(tc.in), DefaultLimits())
		_, err := r.ReadFrame()
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLimitsEnforced(t *testing.T) {
	limits := Limits{MaxBodyBytes: 4, MaxSignatureBytes: 3}

	r := NewReader(strings.NewReader("m5:hello\n"), limits)
	if _, err := r.ReadFrame(); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	r = NewReader(strings.NewReader("s2:{}\nabcd\n"), limits)
	if _, err := r.ReadFrame(); !errors.Is(err, ErrSignatureTooLarge) {
		t.Fatalf("expected ErrSignatureTooLarge, got %v", err)
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, Frame{Body: []byte("hello")}, limits); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	if err := WriteFrame(&buf, Frame{Body: []byte("{}"), Signature: []byte("a\nb")}, DefaultLimits()); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}
