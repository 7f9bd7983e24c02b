package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodedErrors(t *testing.T) {
	t.Run("New carries code and message", func(t *testing.T) {
		err := New(CodeNotFound, "document not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeConflict))
		assert.Equal(t, "not_found: document not found", err.Error())
	})

	t.Run("Wrap preserves the chain", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Wrap(cause, CodeInternal, "failed to load document")
		assert.True(t, errors.Is(err, cause))
		assert.True(t, HasCode(err, CodeInternal))
	})

	t.Run("HasCode sees through fmt wrapping", func(t *testing.T) {
		inner := New(CodeConflict, "alias already bound")
		outer := fmt.Errorf("bind alias: %w", inner)
		assert.True(t, HasCode(outer, CodeConflict))
	})

	t.Run("CodeOf defaults to internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
		assert.Equal(t, CodeForbidden, CodeOf(New(CodeForbidden, "not the owner")))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		require.False(t, HasCode(errors.New("plain"), CodeInternal))
	})
}
