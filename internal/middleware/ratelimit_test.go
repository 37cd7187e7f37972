package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhausts(t *testing.T) {
	tb := NewTokenBucket(3, 0)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, 0)

	assert.True(t, rl.Allow("site-a:1.2.3.4"))
	assert.False(t, rl.Allow("site-a:1.2.3.4"))
	assert.True(t, rl.Allow("site-b:1.2.3.4"))
}
