// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitsavvy/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for expense storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore
	SettlementStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists users.
type UserStore interface {
	// CreateUser persists a new user. ID and CreatedAt are filled in if empty.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// GroupStore persists groups and their membership.
type GroupStore interface {
	// CreateGroup persists a new group. ID and CreatedAt are filled in if empty.
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes a group along with its expenses and settlements.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMember adds a user to a group. Adding an existing member is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error
	RemoveGroupMember(ctx context.Context, groupID, userID string) error
}

// ExpenseStore persists expenses.
type ExpenseStore interface {
	// CreateExpense persists a new expense with its splits.
	// ID and CreatedAt are filled in if empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string) error
}

// SettlementStore persists settlements.
type SettlementStore interface {
	// CreateSettlement persists a new, pending settlement.
	// ID and CreatedAt are filled in if empty.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup returns a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// MarkSettlementComplete flags a settlement as paid at the given Unix time.
	MarkSettlementComplete(ctx context.Context, settlementID string, settledAt int64) error
}
