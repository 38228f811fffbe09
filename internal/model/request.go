package model

import (
	"fmt"
	"strings"
)

// UserMode selects the persona, and with it the backend endpoint
type UserMode string

const (
	ModeNormal     UserMode = "normal"     // Reader flow, direct endpoint
	ModeJournalist UserMode = "journalist" // Detailed flow, wrapped endpoint
)

// ParseUserMode parses a mode name. "reader" is accepted for ModeNormal.
func ParseUserMode(s string) (UserMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "reader", "":
		return ModeNormal, nil
	case "journalist":
		return ModeJournalist, nil
	default:
		return "", &ValidationError{
			Field:   "mode",
			Message: fmt.Sprintf("unknown user mode %q (supported: normal, journalist)", s),
		}
	}
}

func (m UserMode) String() string {
	return string(m)
}

// RequestKey identifies a logical report request. The zero value means "no request".
type RequestKey string

// NewRequestKey builds the key for (mode, query). It returns the zero key when the
// trimmed query is empty.
func NewRequestKey(mode UserMode, query string) RequestKey {
	q := strings.TrimSpace(query)
	if q == "" {
		return ""
	}
	return RequestKey(string(mode) + ":" + q)
}

// IsZero reports whether the key is empty
func (k RequestKey) IsZero() bool {
	return k == ""
}
