package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HanaSeol/CardMoa/app/models"
)

func TestIsValidAmount(t *testing.T) {
	assert.True(t, IsValidAmount(models.PaymentTypePremium, 29000))
	assert.True(t, IsValidAmount(models.PaymentTypeCreditSingle, 4900))
	assert.True(t, IsValidAmount(models.PaymentTypeCreditBundle, 19000))

	// wrong amount for a known type
	assert.False(t, IsValidAmount(models.PaymentTypePremium, 4900))
	assert.False(t, IsValidAmount(models.PaymentTypeCreditSingle, 29000))
	assert.False(t, IsValidAmount(models.PaymentTypeCreditBundle, 0))
	assert.False(t, IsValidAmount(models.PaymentTypePremium, -29000))

	// unknown type never validates
	assert.False(t, IsValidAmount("credit_100", 19000))
	assert.False(t, IsValidAmount("", 29000))
}

func TestRewardFor(t *testing.T) {
	r, ok := RewardFor(models.PaymentTypePremium)
	assert.True(t, ok)
	assert.True(t, r.Premium)
	assert.Equal(t, 0, r.Credits)

	r, ok = RewardFor(models.PaymentTypeCreditSingle)
	assert.True(t, ok)
	assert.False(t, r.Premium)
	assert.Equal(t, 1, r.Credits)

	r, ok = RewardFor(models.PaymentTypeCreditBundle)
	assert.True(t, ok)
	assert.Equal(t, 5, r.Credits)

	_, ok = RewardFor("gift_card")
	assert.False(t, ok)
}
