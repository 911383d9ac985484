package payments

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/HanaSeol/CardMoa/app/models"
)

// Service wraps the grant/spend/refund operations around the repository.
type Service struct {
	repo Repository
}

// NewService creates a payments service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a payments service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Grant redeems a verified order for its reward. Verification and amount
// validation must already have happened; Grant still refuses unknown payment
// types before touching the database.
func (s *Service) Grant(ctx context.Context, in GrantInput) (*GrantResult, error) {
	_ = ctx
	in.Channel = strings.ToLower(strings.TrimSpace(in.Channel))
	in.CommerceOrderID = strings.TrimSpace(in.CommerceOrderID)
	if in.UserID == 0 || in.Channel == "" || in.CommerceOrderID == "" {
		return nil, errors.New("user_id, channel and commerce_order_id are required")
	}

	reward, ok := RewardFor(in.PaymentType)
	if !ok {
		return nil, ErrUnknownPaymentType
	}

	return s.repo.GrantReward(in, reward)
}

// SpendCredit deducts one credit for an AI photo job.
func (s *Service) SpendCredit(ctx context.Context, userID uint, refID uint, memo string) (int, error) {
	_ = ctx
	if userID == 0 {
		return 0, ErrUserNotFound
	}
	return s.repo.SpendCredit(userID, models.CreditRefAiPhoto, refID, memo)
}

// RefundCredit returns the credit for a permanently failed AI photo job.
func (s *Service) RefundCredit(ctx context.Context, userID uint, refID uint, memo string) (int, error) {
	_ = ctx
	if userID == 0 {
		return 0, ErrUserNotFound
	}
	return s.repo.RefundCredit(userID, models.CreditRefAiPhoto, refID, memo)
}

// MarkDispatched records order fulfillment after the dispatch job ran.
func (s *Service) MarkDispatched(ctx context.Context, channel, commerceOrderID string) error {
	_ = ctx
	p, err := s.repo.GetPaymentByChannelOrder(channel, commerceOrderID)
	if err != nil {
		return err
	}
	return s.repo.MarkPaymentDispatched(p.ID)
}

// History returns the most recent ledger entries for a user.
func (s *Service) History(ctx context.Context, userID uint, limit int) ([]models.CreditTransaction, error) {
	_ = ctx
	return s.repo.ListTransactionsByUser(userID, limit)
}
