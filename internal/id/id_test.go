package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Format(t *testing.T) {
	id, err := Generate("evt")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "evt-"))
	assert.Len(t, id, len("evt-")+21)
}

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	for range 500 {
		id, err := Generate("req")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		id := MustGenerate("evt")
		assert.NotEmpty(t, id)
	})
}
