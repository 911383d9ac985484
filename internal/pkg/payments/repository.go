package payments

import (
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HanaSeol/CardMoa/app/models"
)

// Repository provides DB operations used by the payments service.
type Repository interface {
	GrantReward(in GrantInput, reward Reward) (*GrantResult, error)
	SpendCredit(userID uint, refType string, refID uint, memo string) (int, error)
	RefundCredit(userID uint, refType string, refID uint, memo string) (int, error)
	GetPaymentByChannelOrder(channel, commerceOrderID string) (*models.Payment, error)
	MarkPaymentDispatched(paymentID uint) error
	ListTransactionsByUser(userID uint, limit int) ([]models.CreditTransaction, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

const mysqlDuplicateEntry = 1062

func isDuplicateKey(err error) bool {
	var my *mysql.MySQLError
	return errors.As(err, &my) && my.Number == mysqlDuplicateEntry
}

// GrantReward performs the whole grant as one transaction: idempotency check,
// payment row, ledger entry, user balance/premium update. A failure anywhere
// rolls back everything. The payment insert is additionally guarded by the
// composite unique index on (channel, commerce_order_id), so two concurrent
// first-time activations cannot both commit.
func (r *gormRepository) GrantReward(in GrantInput, reward Reward) (*GrantResult, error) {
	result := &GrantResult{}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Payment
		err := tx.Where("channel = ? AND commerce_order_id = ?", in.Channel, in.CommerceOrderID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyActivated
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, in.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		payment := models.Payment{
			UserID:          in.UserID,
			Type:            in.PaymentType,
			Amount:          in.Amount,
			Channel:         in.Channel,
			CommerceOrderID: in.CommerceOrderID,
			ProductName:     in.ProductName,
			Status:          models.PaymentStatusPaid,
		}
		if err := tx.Create(&payment).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyActivated
			}
			return err
		}

		updates := map[string]interface{}{}
		if reward.Premium {
			now := time.Now()
			user.IsPremium = true
			user.PremiumSince = &now
			updates["is_premium"] = true
			updates["premium_since"] = &now
		}
		if reward.Credits > 0 {
			user.CreditBalance += reward.Credits
			updates["credit_balance"] = user.CreditBalance

			entry := models.CreditTransaction{
				UserID:       in.UserID,
				Type:         models.CreditTxPurchase,
				Amount:       reward.Credits,
				BalanceAfter: user.CreditBalance,
				RefType:      models.CreditRefPayment,
				RefID:        payment.ID,
				Memo:         in.ProductName,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		result.CreditsGranted = reward.Credits
		result.PremiumUpgraded = reward.Premium
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SpendCredit deducts one credit and writes the matching ledger entry.
// Returns the balance after the deduction.
func (r *gormRepository) SpendCredit(userID uint, refType string, refID uint, memo string) (int, error) {
	balance := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if user.CreditBalance < 1 {
			return ErrInsufficientCredit
		}

		user.CreditBalance--
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("credit_balance", user.CreditBalance).Error; err != nil {
			return err
		}

		entry := models.CreditTransaction{
			UserID:       userID,
			Type:         models.CreditTxDeduct,
			Amount:       -1,
			BalanceAfter: user.CreditBalance,
			RefType:      refType,
			RefID:        refID,
			Memo:         memo,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		balance = user.CreditBalance
		return nil
	})
	return balance, err
}

// RefundCredit returns one credit previously spent on refType/refID.
func (r *gormRepository) RefundCredit(userID uint, refType string, refID uint, memo string) (int, error) {
	balance := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		user.CreditBalance++
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("credit_balance", user.CreditBalance).Error; err != nil {
			return err
		}

		entry := models.CreditTransaction{
			UserID:       userID,
			Type:         models.CreditTxRefund,
			Amount:       1,
			BalanceAfter: user.CreditBalance,
			RefType:      refType,
			RefID:        refID,
			Memo:         memo,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		balance = user.CreditBalance
		return nil
	})
	return balance, err
}

func (r *gormRepository) GetPaymentByChannelOrder(channel, commerceOrderID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("channel = ? AND commerce_order_id = ?", channel, commerceOrderID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) MarkPaymentDispatched(paymentID uint) error {
	now := time.Now()
	return r.db.Model(&models.Payment{}).Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":        models.PaymentStatusDispatched,
			"dispatched_at": &now,
		}).Error
}

func (r *gormRepository) ListTransactionsByUser(userID uint, limit int) ([]models.CreditTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var entries []models.CreditTransaction
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
