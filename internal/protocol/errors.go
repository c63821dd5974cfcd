package protocol

import "errors"

var (
	ErrNoWireName    = errors.New("protocol: message type has no wire name")
	ErrInvalidAccess = errors.New("protocol: invalid access level")
)
