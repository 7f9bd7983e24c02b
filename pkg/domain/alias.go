package domain

import (
	"strings"

	dErrors "verifi/pkg/domain-errors"
)

// Alias is a short opaque handle a student hands to third parties instead of
// their principal. Bound once, immutable afterwards.
type Alias string

const maxAliasLen = 64

// ParseAlias constructs an Alias from external input. Emptiness is reported
// with CodeValidation so the registry can surface its dedicated alias-empty
// failure; other shape violations are CodeInvalidInput.
func ParseAlias(s string) (Alias, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "alias cannot be empty")
	}
	if len(s) > maxAliasLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "alias exceeds maximum length")
	}
	for _, r := range s {
		if !isAliasRune(r) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "alias may only contain letters, digits, '-' and '_'")
		}
	}
	return Alias(s), nil
}

func isAliasRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}

// String returns the string representation of the alias.
func (a Alias) String() string {
	return string(a)
}

// IsNil returns true for the zero alias.
func (a Alias) IsNil() bool {
	return a == ""
}
