package models

import "github.com/shopspring/decimal"

// Expense represents an amount paid by one user on behalf of several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is a short human-readable label (e.g., "Groceries").
	Description string

	// Amount is the total paid.
	Amount decimal.Decimal

	// PaidBy is the user ID of the payer.
	PaidBy string

	// Splits is how much each participant owes of Amount.
	// The shares are expected to add up to Amount within one cent.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is one participant's share of an expense.
type Split struct {
	ParticipantID string
	Amount        decimal.Decimal
}
