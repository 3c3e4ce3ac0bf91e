package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies normalized client failures. Workflows only branch on
// succeeded vs failed; kinds exist for presentation and tests.
type ErrorKind string

const (
	// ErrorKindNetwork covers transport failures where no response arrived.
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindTimeout covers calls that exceeded the fixed per-call budget.
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindServer covers non-2xx responses.
	ErrorKindServer ErrorKind = "server"
	// ErrorKindNotFound covers id-based lookups of absent resources.
	ErrorKindNotFound ErrorKind = "not_found"
)

// fallbackMessage is the user-facing message when the failure carries no
// structured body.
const fallbackMessage = "Network error occurred"

// Error is the single failure shape every backend call is normalized into
// before it reaches a caller. Callers never observe a raw transport fault.
type Error struct {
	Kind    ErrorKind
	Message string
	// Detail preserves the raw server-supplied detail string when present.
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" && e.Detail != e.Message {
		return fmt.Sprintf("api: %s: %s", e.Message, e.Detail)
	}
	return "api: " + e.Message
}

// IsNotFound reports whether err is a normalized not-found failure.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == ErrorKindNotFound
}

// IsTimeout reports whether err is a normalized timeout failure.
func IsTimeout(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == ErrorKindTimeout
}
