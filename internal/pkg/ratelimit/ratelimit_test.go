package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserKey(t *testing.T) {
	assert.Equal(t, "rate_limit:42:payment_activate", UserKey(42, "payment_activate"))
	assert.Equal(t, "rate_limit:0:x", UserKey(0, "x"))
}

func TestResultRemainingNeverNegative(t *testing.T) {
	// Remaining clamps at zero once the limit is exceeded.
	r := Result{Allowed: false, Remaining: 0}
	assert.False(t, r.Allowed)
	assert.GreaterOrEqual(t, r.Remaining, 0)
}
