package coder

import (
	"github.com/danmuck/skysync/internal/protocol"
)

// Wire documents. Field order here is the order on the wire, "type" first.

type bareDoc struct {
	Type string `json:"type"`
}

type pingDoc struct {
	Type    string `json:"type"`
	Timeout int64  `json:"timeout"`
}

type greetingDoc struct {
	Type     string   `json:"type"`
	Software string   `json:"software"`
	Protocol []int64  `json:"protocol"`
	Features []string `json:"features"`
}

type startDoc struct {
	Type     string   `json:"type"`
	Software string   `json:"software"`
	Protocol int64    `json:"protocol"`
	Features []string `json:"features"`
	ID       string   `json:"id"`
	Access   string   `json:"access"`
	Peer     string   `json:"peer"`
}

type startTLSDoc struct {
	Type   string `json:"type"`
	Peer   string `json:"peer"`
	Access string `json:"access"`
}

type identityDoc struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Time int64  `json:"time"`
}

type readOnlyDoc struct {
	PSK string `json:"psk"`
	RSA string `json:"rsa"`
}

type readWriteDoc struct {
	PublicRSA string `json:"public_rsa"`
}

type keysDoc struct {
	Type      string       `json:"type"`
	Access    string       `json:"access"`
	ShareID   string       `json:"share_id"`
	ReadOnly  readOnlyDoc  `json:"read_only"`
	ReadWrite readWriteDoc `json:"read_write"`
}

// jsonDocumentOf maps msg to its wire document. Receive-only messages and
// messages with values that have no wire form are rejected.
func jsonDocumentOf(msg protocol.Message) (any, error) {
	typ := msg.Type()
	switch m := msg.(type) {
	case protocol.InternalStart, protocol.CannotStart:
		return bareDoc{Type: wireName(typ)}, nil
	case protocol.Ping:
		return pingDoc{Type: wireName(typ), Timeout: m.Timeout}, nil
	case protocol.Greeting:
		return greetingDoc{
			Type:     wireName(typ),
			Software: m.Software,
			Protocol: orEmpty(m.Protocol),
			Features: orEmpty(m.Features),
		}, nil
	case protocol.Start:
		return startDoc{
			Type:     wireName(typ),
			Software: m.Software,
			Protocol: m.Protocol,
			Features: orEmpty(m.Features),
			ID:       m.ID,
			Access:   m.Access,
			Peer:     m.Peer,
		}, nil
	case protocol.StartTLS:
		access, err := accessName(typ, m.Access)
		if err != nil {
			return nil, err
		}
		return startTLSDoc{Type: wireName(typ), Peer: m.Peer, Access: access}, nil
	case protocol.Identity:
		return identityDoc{Type: wireName(typ), Name: m.Name, Time: m.Time}, nil
	case protocol.Keys:
		access, err := accessName(typ, m.Access)
		if err != nil {
			return nil, err
		}
		return keysDoc{
			Type:    wireName(typ),
			Access:  access,
			ShareID: m.ShareID,
			ReadOnly: readOnlyDoc{
				PSK: m.ReadOnly.PSK,
				RSA: m.ReadOnly.RSA,
			},
			ReadWrite: readWriteDoc{PublicRSA: m.ReadWrite.PublicRSA},
		}, nil
	case protocol.Unknown, protocol.KeysAcknowledgment:
		return nil, ErrUnsupported
	default:
		return nil, ErrUnsupported
	}
}

// concrete returns the value form of msg. Variants have value receivers, so
// pointers to them satisfy protocol.Message too; a nil message or nil pointer
// reports false.
func concrete(msg protocol.Message) (protocol.Message, bool) {
	switch m := msg.(type) {
	case nil:
		return nil, false
	case *protocol.Unknown:
		return deref(m)
	case *protocol.InternalStart:
		return deref(m)
	case *protocol.Ping:
		return deref(m)
	case *protocol.Greeting:
		return deref(m)
	case *protocol.Start:
		return deref(m)
	case *protocol.CannotStart:
		return deref(m)
	case *protocol.StartTLS:
		return deref(m)
	case *protocol.Identity:
		return deref(m)
	case *protocol.Keys:
		return deref(m)
	case *protocol.KeysAcknowledgment:
		return deref(m)
	default:
		return msg, true
	}
}

func deref[T protocol.Message](p *T) (protocol.Message, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

// wireName is only called for implemented variants, all of which have a name.
func wireName(typ protocol.MessageType) string {
	name, _ := typ.WireName()
	return name
}

func accessName(typ protocol.MessageType, a protocol.AccessLevel) (string, error) {
	name, err := a.WireName()
	if err != nil {
		return "", FieldError{MessageType: typ, Field: "access", Reason: "invalid access level"}
	}
	return name, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
