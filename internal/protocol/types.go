package protocol

// MaxMessageSize bounds the encoded body of a single message.
const MaxMessageSize = 16 * 1024 * 1024

// MessageType is the message kind discriminant.
type MessageType uint8

const (
	MessageUnknown MessageType = iota
	MessageInternalStart
	MessagePing
	MessageGreeting
	MessageStart
	MessageCannotStart
	MessageStartTLS
	MessageIdentity
	MessageKeys
	MessageKeysAcknowledgment
	MessageManifest
	MessageGetManifest
	MessageManifestCurrent
	MessageGet
	MessageFileData
	MessageUpdate
	MessageMove
)

var messageWireNames = map[MessageType]string{
	MessageInternalStart:      "internal_start",
	MessagePing:               "ping",
	MessageGreeting:           "greeting",
	MessageStart:              "start",
	MessageCannotStart:        "cannot_start",
	MessageStartTLS:           "starttls",
	MessageIdentity:           "identity",
	MessageKeys:               "keys",
	MessageKeysAcknowledgment: "keys_acknowledgment",
	MessageManifest:           "manifest",
	MessageGetManifest:        "get_manifest",
	MessageManifestCurrent:    "manifest_current",
	MessageGet:                "get",
	MessageFileData:           "file_data",
	MessageUpdate:             "update",
	MessageMove:               "move",
}

var messageTypesByWireName = invert(messageWireNames)

// ParseMessageType resolves a wire name. Names this build does not know map to
// MessageUnknown so that peers speaking a newer protocol revision still decode.
func ParseMessageType(name string) MessageType {
	if t, ok := messageTypesByWireName[name]; ok {
		return t
	}
	return MessageUnknown
}

// WireName returns the name t is transmitted as. MessageUnknown is only ever
// received, so it has none.
func (t MessageType) WireName() (string, error) {
	name, ok := messageWireNames[t]
	if !ok {
		return "", ErrNoWireName
	}
	return name, nil
}

func (t MessageType) String() string {
	if name, ok := messageWireNames[t]; ok {
		return name
	}
	return "unknown"
}

// AccessLevel is the permission tier granted to a peer.
type AccessLevel uint8

const (
	AccessUnknown AccessLevel = iota
	AccessReadOnly
	AccessReadWrite
	AccessUntrusted
)

var accessWireNames = map[AccessLevel]string{
	AccessReadOnly:  "read_only",
	AccessReadWrite: "read_write",
	AccessUntrusted: "untrusted",
}

var accessLevelsByWireName = invert(accessWireNames)

func ParseAccessLevel(name string) (AccessLevel, error) {
	if a, ok := accessLevelsByWireName[name]; ok {
		return a, nil
	}
	return AccessUnknown, ErrInvalidAccess
}

func (a AccessLevel) WireName() (string, error) {
	name, ok := accessWireNames[a]
	if !ok {
		return "", ErrInvalidAccess
	}
	return name, nil
}

func (a AccessLevel) String() string {
	if name, ok := accessWireNames[a]; ok {
		return name
	}
	return "unknown"
}

func invert[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
