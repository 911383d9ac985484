package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment type codes sold through the commerce channel.
const (
	PaymentTypePremium      = "premium"
	PaymentTypeCreditSingle = "credit_single"
	PaymentTypeCreditBundle = "credit_bundle"
)

const (
	PaymentStatusPaid       = "paid"
	PaymentStatusDispatched = "dispatched"
)

// Payment records one redeemed commerce order. The composite unique index on
// (channel, commerce_order_id) makes a second activation of the same order
// fail at the database even under concurrent requests.
type Payment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	Type            string         `gorm:"type:varchar(30);not null" json:"type"`
	Amount          int            `gorm:"not null" json:"amount"`
	Channel         string         `gorm:"type:varchar(30);not null;index:ux_payments_channel_order,unique,priority:1" json:"channel"`
	CommerceOrderID string         `gorm:"type:varchar(100);not null;index:ux_payments_channel_order,unique,priority:2" json:"commerce_order_id"`
	ProductName     string         `gorm:"type:varchar(200);default:''" json:"product_name"`
	Status          string         `gorm:"type:varchar(20);not null;default:'paid'" json:"status"`
	DispatchedAt    *time.Time     `gorm:"type:timestamp;default:null" json:"dispatched_at,omitempty"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Ledger entry types.
const (
	CreditTxPurchase = "purchase"
	CreditTxDeduct   = "deduct"
	CreditTxRefund   = "refund"
)

// Ledger reference types.
const (
	CreditRefPayment = "payment"
	CreditRefAiPhoto = "ai_photo"
)

// CreditTransaction is an append-only ledger row. BalanceAfter is the user's
// balance once this entry was applied, so the history reads without replay.
type CreditTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Type         string    `gorm:"type:varchar(20);not null" json:"type"`
	Amount       int       `gorm:"not null" json:"amount"`
	BalanceAfter int       `gorm:"not null" json:"balance_after"`
	RefType      string    `gorm:"type:varchar(20);default:''" json:"ref_type"`
	RefID        uint      `gorm:"default:0" json:"ref_id"`
	Memo         string    `gorm:"type:varchar(200);default:''" json:"memo"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
