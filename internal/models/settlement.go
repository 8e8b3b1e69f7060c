package models

import "github.com/shopspring/decimal"

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// FromUserID is the user who pays (debtor settling up).
	FromUserID string

	// ToUserID is the user who receives payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// Settled is true once the payment has been confirmed as completed.
	Settled bool

	// SettledAt is the Unix timestamp of completion, zero while pending.
	SettledAt int64
}
