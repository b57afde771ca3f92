package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_WithinBurst(t *testing.T) {
	krl := New(1, 3)
	defer krl.Stop()

	for i := range 3 {
		assert.True(t, krl.Allow("prop-5001"), "request %d should be allowed", i)
	}
	assert.False(t, krl.Allow("prop-5001"), "burst exhausted")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	assert.True(t, krl.Allow("prop-5001"))
	assert.False(t, krl.Allow("prop-5001"))
	assert.True(t, krl.Allow("prop-6001"), "a different property has its own bucket")
}
