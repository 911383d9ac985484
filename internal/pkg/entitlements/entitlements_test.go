package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxInvitations(t *testing.T) {
	assert.Equal(t, FreeMaxInvitations, MaxInvitations(false))
	assert.Equal(t, PremiumMaxInvitations, MaxInvitations(true))
}

func TestCanUseTheme(t *testing.T) {
	// free themes are open to everyone
	assert.True(t, CanUseTheme(false, "classic"))
	assert.True(t, CanUseTheme(true, "classic"))

	// premium themes are gated
	assert.False(t, CanUseTheme(false, "hanbok"))
	assert.True(t, CanUseTheme(true, "hanbok"))

	// unknown themes behave like free themes
	assert.True(t, CanUseTheme(false, "does-not-exist"))
}

func TestWatermarkRemoved(t *testing.T) {
	assert.False(t, WatermarkRemoved(false))
	assert.True(t, WatermarkRemoved(true))
}
