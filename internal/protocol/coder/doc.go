// Package coder converts protocol messages to and from wire frames.
//
// Ownership boundary:
// - backend selection (JSON is the only wire format)
// - body decode: parse, type dispatch, field extraction
// - body encode and frame assembly
// - the single error type returned to callers
//
// A Coder may decode from many goroutines at once. Encode reuses a scratch
// buffer owned by the Coder, so encodes on one Coder must not overlap; use one
// Coder per connection.
package coder
