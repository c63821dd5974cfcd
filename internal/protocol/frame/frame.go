package frame

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/danmuck/skysync/internal/protocol"
)

// Frame prefixes, one per combination of the payload and signature flags.
const (
	PrefixPlain   byte = 'm'
	PrefixPayload byte = '!'
	PrefixSigned  byte = 's'
	PrefixBoth    byte = '$'
)

const maxLengthDigits = 10

var (
	ErrInvalidPrefix     = errors.New("frame: invalid prefix")
	ErrInvalidLength     = errors.New("frame: invalid length")
	ErrBodyTooLarge      = errors.New("frame: body too large")
	ErrSignatureTooLarge = errors.New("frame: signature too large")
	ErrInvalidSignature  = errors.New("frame: invalid signature line")
	ErrMissingNewline    = errors.New("frame: missing newline after body")
	ErrTruncated         = errors.New("frame: truncated frame")
)

// Frame is one message frame with its prefix, length and newlines stripped.
// A binary payload block announced by Payload is not part of the frame.
type Frame struct {
	Payload   bool
	Body      []byte
	Signature []byte
}

func (f Frame) Signed() bool { return len(f.Signature) > 0 }

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxBodyBytes      int
	MaxSignatureBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxBodyBytes:      protocol.MaxMessageSize,
		MaxSignatureBytes: 64 * 1024,
	}
}

// Prefix maps the payload and signature flags to a frame prefix.
func Prefix(payload, signed bool) byte {
	switch {
	case payload && signed:
		return PrefixBoth
	case payload:
		return PrefixPayload
	case signed:
		return PrefixSigned
	default:
		return PrefixPlain
	}
}

// ParsePrefix is the inverse of Prefix.
func ParsePrefix(b byte) (payload, signed bool, err error) {
	switch b {
	case PrefixPlain:
		return false, false, nil
	case PrefixPayload:
		return true, false, nil
	case PrefixSigned:
		return false, true, nil
	case PrefixBoth:
		return true, true, nil
	default:
		return false, false, fmt.Errorf("%w: %q", ErrInvalidPrefix, b)
	}
}

// WriteFrame writes f as prefix, decimal body length, ':', body, '\n' and,
// when signed, the signature followed by '\n'.
func WriteFrame(w io.Writer, f Frame, limits Limits) error {
	if len(f.Body) > limits.MaxBodyBytes {
		return ErrBodyTooLarge
	}
	if len(f.Signature) > limits.MaxSignatureBytes {
		return ErrSignatureTooLarge
	}
	for _, c := range f.Signature {
		if c == '\n' {
			return ErrInvalidSignature
		}
	}

	head := make([]byte, 0, 2+maxLengthDigits)
	head = append(head, Prefix(f.Payload, f.Signed()))
	head = strconv.AppendInt(head, int64(len(f.Body)), 10)
	head = append(head, ':')
	if _, err := w.Write(head); err != nil {
		return err
	}
	if _, err := w.Write(f.Body); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'\n'}); err != nil {
		return err
	}
	if !f.Signed() {
		return nil
	}
	if _, err := w.Write(f.Signature); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}

// Reader splits a byte stream into frames.
type Reader struct {
	br     *bufio.Reader
	limits Limits
}

func NewReader(r io.Reader, limits Limits) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{br: br, limits: limits}
}

// ReadFrame reads the next frame. It returns io.EOF only when the stream ends
// cleanly on a frame boundary.
func (r *Reader) ReadFrame() (Frame, error) {
	prefix, err := r.br.ReadByte()
	if err != nil {
		return Frame{}, err
	}
	payload, signed, err := ParsePrefix(prefix)
	if err != nil {
		return Frame{}, err
	}

	n, err := r.readLength()
	if err != nil {
		return Frame{}, err
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r.br, body); err != nil {
		return Frame{}, truncated(err)
	}
	c, err := r.br.ReadByte()
	if err != nil {
		return Frame{}, truncated(err)
	}
	if c != '\n' {
		return Frame{}, ErrMissingNewline
	}

	f := Frame{Payload: payload, Body: body}
	if signed {
		sig, err := r.readSignature()
		if err != nil {
			return Frame{}, err
		}
		f.Signature = sig
	}
	return f, nil
}

func (r *Reader) readLength() (int, error) {
	n := 0
	digits := 0
	for {
		c, err := r.br.ReadByte()
		if err != nil {
			return 0, truncated(err)
		}
		if c == ':' {
			break
		}
		if c < '0' || c > '9' || digits == maxLengthDigits {
			return 0, ErrInvalidLength
		}
		n = n*10 + int(c-'0')
		digits++
	}
	if digits == 0 {
		return 0, ErrInvalidLength
	}
	if n > r.limits.MaxBodyBytes {
		return 0, ErrBodyTooLarge
	}
	return n, nil
}

func (r *Reader) readSignature() ([]byte, error) {
	var sig []byte
	for {
		c, err := r.br.ReadByte()
		if err != nil {
			return nil, truncated(err)
		}
		if c == '\n' {
			break
		}
		if len(sig) == r.limits.MaxSignatureBytes {
			return nil, ErrSignatureTooLarge
		}
		sig = append(sig, c)
	}
	if len(sig) == 0 {
		return nil, ErrInvalidSignature
	}
	return sig, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}
