package gate

import "errors"

// Sentinel errors returned by the gate.
var (
	ErrUnauthorized = errors.New("unauthorized")
)
