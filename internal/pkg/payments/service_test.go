package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HanaSeol/CardMoa/app/models"
)

// fakeRepository records calls and simulates grant outcomes without a DB.
type fakeRepository struct {
	grantCalls    int
	lastInput     GrantInput
	lastReward    Reward
	grantErr      error
	granted       map[string]bool
	spendBalance  int
	spendErr      error
	refundBalance int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{granted: make(map[string]bool)}
}

func (f *fakeRepository) GrantReward(in GrantInput, reward Reward) (*GrantResult, error) {
	f.grantCalls++
	f.lastInput = in
	f.lastReward = reward
	if f.grantErr != nil {
		return nil, f.grantErr
	}
	key := in.Channel + ":" + in.CommerceOrderID
	if f.granted[key] {
		return nil, ErrAlreadyActivated
	}
	f.granted[key] = true
	return &GrantResult{CreditsGranted: reward.Credits, PremiumUpgraded: reward.Premium}, nil
}

func (f *fakeRepository) SpendCredit(userID uint, refType string, refID uint, memo string) (int, error) {
	if f.spendErr != nil {
		return 0, f.spendErr
	}
	f.spendBalance--
	return f.spendBalance, nil
}

func (f *fakeRepository) RefundCredit(userID uint, refType string, refID uint, memo string) (int, error) {
	f.refundBalance++
	return f.refundBalance, nil
}

func (f *fakeRepository) GetPaymentByChannelOrder(channel, commerceOrderID string) (*models.Payment, error) {
	return &models.Payment{ID: 7, Channel: channel, CommerceOrderID: commerceOrderID}, nil
}

func (f *fakeRepository) MarkPaymentDispatched(paymentID uint) error { return nil }

func (f *fakeRepository) ListTransactionsByUser(userID uint, limit int) ([]models.CreditTransaction, error) {
	return nil, nil
}

func TestGrantPassesComputedReward(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	res, err := svc.Grant(context.Background(), GrantInput{
		UserID:          1,
		PaymentType:     models.PaymentTypeCreditBundle,
		Amount:          19000,
		Channel:         "naver",
		CommerceOrderID: "order-1",
		ProductName:     "Credit 5 Pack",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, res.CreditsGranted)
	assert.False(t, res.PremiumUpgraded)
	assert.Equal(t, Reward{Credits: 5}, repo.lastReward)
}

func TestGrantPremiumUpgrade(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	res, err := svc.Grant(context.Background(), GrantInput{
		UserID:          1,
		PaymentType:     models.PaymentTypePremium,
		Amount:          29000,
		Channel:         "naver",
		CommerceOrderID: "order-2",
	})
	require.NoError(t, err)
	assert.True(t, res.PremiumUpgraded)
	assert.Equal(t, 0, res.CreditsGranted)
}

func TestGrantUnknownTypeFailsBeforeRepository(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	_, err := svc.Grant(context.Background(), GrantInput{
		UserID:          1,
		PaymentType:     "gift_card",
		Amount:          1000,
		Channel:         "naver",
		CommerceOrderID: "order-3",
	})
	assert.ErrorIs(t, err, ErrUnknownPaymentType)
	assert.Equal(t, 0, repo.grantCalls, "unknown type must never reach the database")
}

func TestGrantSecondActivationConflicts(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	in := GrantInput{
		UserID:          1,
		PaymentType:     models.PaymentTypeCreditSingle,
		Amount:          4900,
		Channel:         "naver",
		CommerceOrderID: "order-4",
	}
	_, err := svc.Grant(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.Grant(context.Background(), in)
	assert.ErrorIs(t, err, ErrAlreadyActivated)
}

func TestGrantNormalizesChannelAndOrderID(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	_, err := svc.Grant(context.Background(), GrantInput{
		UserID:          1,
		PaymentType:     models.PaymentTypeCreditSingle,
		Amount:          4900,
		Channel:         " Naver ",
		CommerceOrderID: " order-5 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "naver", repo.lastInput.Channel)
	assert.Equal(t, "order-5", repo.lastInput.CommerceOrderID)
}

func TestGrantRequiresIdentifiers(t *testing.T) {
	svc := NewService(newFakeRepository())

	_, err := svc.Grant(context.Background(), GrantInput{
		PaymentType: models.PaymentTypePremium,
		Channel:     "naver",
	})
	assert.Error(t, err)
}

func TestSpendAndRefundCredit(t *testing.T) {
	repo := newFakeRepository()
	repo.spendBalance = 3
	svc := NewService(repo)

	balance, err := svc.SpendCredit(context.Background(), 1, 9, "ai photo")
	require.NoError(t, err)
	assert.Equal(t, 2, balance)

	balance, err = svc.RefundCredit(context.Background(), 1, 9, "ai photo failed")
	require.NoError(t, err)
	assert.Equal(t, 1, balance)
}

func TestSpendCreditInsufficient(t *testing.T) {
	repo := newFakeRepository()
	repo.spendErr = ErrInsufficientCredit
	svc := NewService(repo)

	_, err := svc.SpendCredit(context.Background(), 1, 9, "ai photo")
	assert.ErrorIs(t, err, ErrInsufficientCredit)
}
