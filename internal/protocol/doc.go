// Package protocol owns the message model of the sync protocol.
//
// Ownership boundary:
// - message kind and access level registries (wire names)
// - the closed set of message variants
// - frame envelope metadata (payload flag, signature)
//
// Wire encoding lives in protocol/coder; frame splitting in protocol/frame.
package protocol
