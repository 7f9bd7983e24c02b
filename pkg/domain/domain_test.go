package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "verifi/pkg/domain-errors"
)

func TestParsePrincipal(t *testing.T) {
	t.Run("accepts opaque identifiers", func(t *testing.T) {
		p, err := ParsePrincipal("0xFABB0ac9d68B0B445fB7357272Ff202C5651694a")
		require.NoError(t, err)
		assert.Equal(t, "0xFABB0ac9d68B0B445fB7357272Ff202C5651694a", p.String())
		assert.False(t, p.IsNil())
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		p, err := ParsePrincipal("  student-1  ")
		require.NoError(t, err)
		assert.Equal(t, Principal("student-1"), p)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := ParsePrincipal("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects embedded whitespace", func(t *testing.T) {
		_, err := ParsePrincipal("two words")
		require.Error(t, err)
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		_, err := ParsePrincipal(strings.Repeat("a", maxPrincipalLen+1))
		require.Error(t, err)
	})
}

func TestParseRole(t *testing.T) {
	t.Run("known roles parse", func(t *testing.T) {
		for _, s := range []string{"admin", "verifier"} {
			r, err := ParseRole(s)
			require.NoError(t, err)
			assert.True(t, r.IsValid())
		}
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		_, err := ParseRole("superuser")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("admin administers both roles", func(t *testing.T) {
		assert.Equal(t, RoleAdmin, RoleAdmin.AdministeredBy())
		assert.Equal(t, RoleAdmin, RoleVerifier.AdministeredBy())
	})
}

func TestParseDocumentID(t *testing.T) {
	t.Run("decimal ids parse", func(t *testing.T) {
		id, err := ParseDocumentID("42")
		require.NoError(t, err)
		assert.Equal(t, DocumentID(42), id)
		assert.Equal(t, "42", id.String())
	})

	t.Run("rejects non-numeric", func(t *testing.T) {
		for _, s := range []string{"", "-1", "abc", "1.5"} {
			_, err := ParseDocumentID(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestDeriveDocumentID(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, DeriveDocumentID("Qm123456789"), DeriveDocumentID("Qm123456789"))
	})

	t.Run("distinct content diverges", func(t *testing.T) {
		assert.NotEqual(t, DeriveDocumentID("Qm123456789"), DeriveDocumentID("Qm987654321"))
	})
}

func TestParseAlias(t *testing.T) {
	t.Run("accepts short handles", func(t *testing.T) {
		a, err := ParseAlias("AB12")
		require.NoError(t, err)
		assert.Equal(t, Alias("AB12"), a)
	})

	t.Run("empty alias carries validation code", func(t *testing.T) {
		_, err := ParseAlias("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects punctuation", func(t *testing.T) {
		_, err := ParseAlias("ab/12")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
