package coder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/danmuck/skysync/internal/protocol"
)

// parseDocument parses exactly one JSON value. Numbers stay json.Number so
// integer fields keep full precision.
func parseDocument(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after document", ErrParse)
	}
	return root, nil
}

// document reads typed fields by name. The first failure sticks and later
// reads return zero values, so a decoder can read every field and check Err
// once. Nested documents share the error of their parent.
type document struct {
	typ    protocol.MessageType
	path   string
	fields map[string]any
	err    *error
}

func newDocument(typ protocol.MessageType, fields map[string]any) *document {
	var err error
	return &document{typ: typ, fields: fields, err: &err}
}

func (d *document) Err() error { return *d.err }

func (d *document) fail(name, reason string) {
	if *d.err == nil {
		*d.err = FieldError{MessageType: d.typ, Field: d.path + name, Reason: reason}
	}
}

func (d *document) value(name string) (any, bool) {
	if *d.err != nil {
		return nil, false
	}
	v, ok := d.fields[name]
	if !ok {
		d.fail(name, "missing required field")
		return nil, false
	}
	return v, true
}

func (d *document) string(name string) string {
	v, ok := d.value(name)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		d.fail(name, mismatch("string", v))
		return ""
	}
	return s
}

// int accepts a JSON number with a whole value or a decimal string; older
// peers wrote some integer fields as strings.
func (d *document) int(name string) int64 {
	v, ok := d.value(name)
	if !ok {
		return 0
	}
	n, err := toInt(v)
	if err != nil {
		d.fail(name, err.Error())
		return 0
	}
	return n
}

func (d *document) ints(name string) []int64 {
	items, ok := d.array(name)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(items))
	for i, item := range items {
		n, err := toInt(item)
		if err != nil {
			d.fail(fmt.Sprintf("%s[%d]", name, i), err.Error())
			return nil
		}
		out = append(out, n)
	}
	return out
}

func (d *document) strings(name string) []string {
	items, ok := d.array(name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			d.fail(fmt.Sprintf("%s[%d]", name, i), mismatch("string", item))
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (d *document) array(name string) ([]any, bool) {
	v, ok := d.value(name)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		d.fail(name, mismatch("array", v))
		return nil, false
	}
	return items, true
}

func (d *document) access(name string) protocol.AccessLevel {
	s := d.string(name)
	if *d.err != nil {
		return protocol.AccessUnknown
	}
	a, err := protocol.ParseAccessLevel(s)
	if err != nil {
		d.fail(name, fmt.Sprintf("invalid access level %q", s))
		return protocol.AccessUnknown
	}
	return a
}

// object returns the nested document under name. On failure the returned
// document is empty and every read from it yields zero values.
func (d *document) object(name string) *document {
	child := &document{typ: d.typ, path: d.path + name + ".", err: d.err}
	v, ok := d.value(name)
	if !ok {
		return child
	}
	fields, ok := v.(map[string]any)
	if !ok {
		d.fail(name, mismatch("object", v))
		return child
	}
	child.fields = fields
	return child
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		return integral(n.String())
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected integer, got string %q", n)
		}
		return i, nil
	default:
		return 0, errors.New(mismatch("integer", v))
	}
}

// integral accepts numbers such as 1e2 or 30.0 whose value is a whole int64.
func integral(s string) (int64, error) {
	f, _, err := big.ParseFloat(s, 10, 256, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return 0, fmt.Errorf("expected integer, got %s", s)
	}
	i, acc := f.Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("integer out of range: %s", s)
	}
	return i, nil
}

func mismatch(want string, got any) string {
	return fmt.Sprintf("expected %s, got %s", want, kindOf(got))
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
