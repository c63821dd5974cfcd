package protocol

// Envelope is the out-of-band frame metadata of a message. The decoder stamps
// it from the values the transport supplies; it is never read from the body.
type Envelope struct {
	// Payload reports that a binary payload block follows the frame.
	Payload bool
	// Signature is the trailing signature line; empty when unsigned.
	Signature string
}

func (e Envelope) Signed() bool { return e.Signature != "" }

func (e Envelope) envelope() Envelope { return e }

// Message is one decoded or to-be-encoded protocol message. The set of
// implementations is closed to this package.
type Message interface {
	Type() MessageType
	envelope() Envelope
}

// EnvelopeOf returns the frame metadata carried by m.
func EnvelopeOf(m Message) Envelope {
	return m.envelope()
}

// Unknown is produced for bodies whose type is absent, unrecognized, or not
// implemented by this build. It is never encoded.
type Unknown struct {
	Envelope
	// WireType is the raw "type" value; empty when absent or not a string.
	WireType string
	// Content is the document re-serialized as compact JSON.
	Content string
}

func (Unknown) Type() MessageType { return MessageUnknown }

// InternalStart is the local signal that a connection is ready to handshake.
type InternalStart struct {
	Envelope
}

func (InternalStart) Type() MessageType { return MessageInternalStart }

type Ping struct {
	Envelope
	Timeout int64
}

func (Ping) Type() MessageType { return MessagePing }

// Greeting is the first message a listener sends, advertising every protocol
// version it supports.
type Greeting struct {
	Envelope
	Software string
	Protocol []int64
	Features []string
}

func (Greeting) Type() MessageType { return MessageGreeting }

// Start answers a Greeting with the chosen protocol version and the share the
// connecting peer wants to sync.
type Start struct {
	Envelope
	Software string
	Protocol int64
	Features []string
	ID       string
	Access   string
	Peer     string
}

func (Start) Type() MessageType { return MessageStart }

type CannotStart struct {
	Envelope
}

func (CannotStart) Type() MessageType { return MessageCannotStart }

type StartTLS struct {
	Envelope
	Peer   string
	Access AccessLevel
}

func (StartTLS) Type() MessageType { return MessageStartTLS }

type Identity struct {
	Envelope
	Name string
	Time int64
}

func (Identity) Type() MessageType { return MessageIdentity }

// ReadOnlyKeys are the credentials handed to a read-only peer.
type ReadOnlyKeys struct {
	PSK string
	RSA string
}

// ReadWriteKeys are the credentials handed to a read-write peer.
type ReadWriteKeys struct {
	PublicRSA string
}

type Keys struct {
	Envelope
	Access    AccessLevel
	ShareID   string
	ReadOnly  ReadOnlyKeys
	ReadWrite ReadWriteKeys
}

func (Keys) Type() MessageType { return MessageKeys }

// KeysAcknowledgment confirms receipt of Keys. It is receive-only.
type KeysAcknowledgment struct {
	Envelope
}

func (KeysAcknowledgment) Type() MessageType { return MessageKeysAcknowledgment }
