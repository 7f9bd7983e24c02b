package domain

import (
	"strings"
	"unicode"

	dErrors "verifi/pkg/domain-errors"
)

// Principal is an opaque, comparable identifier for an authenticated party
// (a wallet address, a subject identifier from the IdP, or similar). The
// registry never creates or destroys principals, it only references them.
//
// Usage: construct via ParsePrincipal at trust boundaries to enforce the
// shape; direct casting bypasses validation.
type Principal string

// NilPrincipal is the zero value, never a valid caller.
const NilPrincipal Principal = ""

const maxPrincipalLen = 128

// ParsePrincipal constructs a Principal from external input.
//
// Errors: returns CodeInvalidInput when the value is empty, too long, or
// contains whitespace/control characters; no other errors are expected.
func ParsePrincipal(s string) (Principal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NilPrincipal, dErrors.New(dErrors.CodeInvalidInput, "principal cannot be empty")
	}
	if len(s) > maxPrincipalLen {
		return NilPrincipal, dErrors.New(dErrors.CodeInvalidInput, "principal exceeds maximum length")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return NilPrincipal, dErrors.New(dErrors.CodeInvalidInput, "principal contains invalid characters")
		}
	}
	return Principal(s), nil
}

// String returns the string representation of the principal.
func (p Principal) String() string {
	return string(p)
}

// IsNil returns true for the zero principal.
func (p Principal) IsNil() bool {
	return p == NilPrincipal
}
