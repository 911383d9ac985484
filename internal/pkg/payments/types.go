package payments

import "errors"

// Failure conditions the activation endpoint translates into responses.
var (
	ErrAlreadyActivated   = errors.New("payments: order already activated")
	ErrUnknownPaymentType = errors.New("payments: unknown payment type")
	ErrUserNotFound       = errors.New("payments: user not found")
	ErrInsufficientCredit = errors.New("payments: insufficient credit balance")
)

// GrantInput carries the verified order facts into the grant transaction.
type GrantInput struct {
	UserID          uint
	PaymentType     string
	Amount          int
	Channel         string
	CommerceOrderID string
	ProductName     string
}

// GrantResult reports what the grant awarded.
type GrantResult struct {
	CreditsGranted  int
	PremiumUpgraded bool
}

// Reward is the computed outcome for a payment type.
type Reward struct {
	Credits int
	Premium bool
}
