// Package api defines the splitsavvy.v1 RPC messages and the Connect glue
// for the group, expense and settlement services.
//
// Messages are plain structs serialized as JSON. Money fields are
// decimal.Decimal and travel as strings (e.g. "12.50").
package api

import "github.com/shopspring/decimal"

// Split modes accepted by AddExpense.
const (
	SplitEqual    = "equal"
	SplitCustom   = "custom"
	SplitItemized = "itemized"
)

// User is a person who can join groups.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// Group is a set of members sharing expenses.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

// Split is one participant's share of an expense.
type Split struct {
	UserID string          `json:"user_id" validate:"required"`
	Amount decimal.Decimal `json:"amount" validate:"gte=0"`
}

// Item is a line of an itemized expense, shared equally by AssignedTo.
type Item struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" validate:"gte=0"`
	AssignedTo  []string        `json:"assigned_to" validate:"min=1,dive,required"`
}

// Expense is an amount paid by one member and split among others.
type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	PaidBy      string          `json:"paid_by"`
	Splits      []Split         `json:"splits"`
	CreatedAt   int64           `json:"created_at"`
}

// Balance is a member's net position: positive is owed money, negative owes.
type Balance struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Transfer is one suggested payment of a settlement plan.
type Transfer struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Settlement records a payment from one member to another.
type Settlement struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  int64           `json:"created_at"`
	Settled    bool            `json:"settled"`
	SettledAt  int64           `json:"settled_at,omitempty"`
}

// GroupService

// AddUserRequest creates a user.
type AddUserRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// AddUserResponse returns the created user.
type AddUserResponse struct {
	User *User `json:"user"`
}

// ListUsersRequest lists every user.
type ListUsersRequest struct{}

// ListUsersResponse holds users in creation order.
type ListUsersResponse struct {
	Users []*User `json:"users"`
}

// CreateGroupRequest creates a group with its initial members.
type CreateGroupRequest struct {
	Name    string   `json:"name" validate:"required,max=100"`
	Members []string `json:"members" validate:"dive,required"`
}

// CreateGroupResponse returns the created group.
type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

// GetGroupRequest fetches one group.
type GetGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

// GetGroupResponse returns the group with its members.
type GetGroupResponse struct {
	Group *Group `json:"group"`
}

// ListGroupsRequest lists every group.
type ListGroupsRequest struct{}

// ListGroupsResponse holds groups in creation order.
type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// DeleteGroupRequest deletes a group with its expenses and settlements.
type DeleteGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

// DeleteGroupResponse is empty.
type DeleteGroupResponse struct{}

// AddParticipantRequest adds a user to a group.
type AddParticipantRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
}

// AddParticipantResponse returns the updated group.
type AddParticipantResponse struct {
	Group *Group `json:"group"`
}

// RemoveParticipantRequest removes a user from a group.
type RemoveParticipantRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
}

// RemoveParticipantResponse returns the updated group.
type RemoveParticipantResponse struct {
	Group *Group `json:"group"`
}

// ExpenseService

// AddExpenseRequest records an expense. Splits are used in custom mode and
// Items (with an optional Subtotal, defaulting to the item sum) in itemized
// mode. Equal mode, the default, shares Amount among the payer and every
// group member.
type AddExpenseRequest struct {
	GroupID     string          `json:"group_id" validate:"required"`
	Description string          `json:"description" validate:"required,max=200"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	PaidBy      string          `json:"paid_by" validate:"required"`
	SplitMode   string          `json:"split_mode,omitempty" validate:"omitempty,oneof=equal custom itemized"`
	Splits      []Split         `json:"splits,omitempty" validate:"dive"`
	Items       []Item          `json:"items,omitempty" validate:"dive"`
	Subtotal    decimal.Decimal `json:"subtotal" validate:"gte=0"`
}

// AddExpenseResponse returns the stored expense with its splits.
type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// ListExpensesRequest lists a group's expenses.
type ListExpensesRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

// ListExpensesResponse holds expenses oldest first.
type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// DeleteExpenseRequest deletes one expense.
type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id" validate:"required"`
}

// DeleteExpenseResponse is empty.
type DeleteExpenseResponse struct{}

// SettlementService

// GetBalancesRequest asks for a group's balances and settlement plan.
type GetBalancesRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

// GetBalancesResponse carries the net balances of a group and the transfers
// that settle them. Residual lists balances the plan could not match, which
// only happens when the recorded expenses do not add up.
type GetBalancesResponse struct {
	Balances  []Balance  `json:"balances"`
	Transfers []Transfer `json:"transfers"`
	Residual  []Balance  `json:"residual,omitempty"`
}

// SettleDebtRequest records a pending payment between two members.
type SettleDebtRequest struct {
	GroupID    string          `json:"group_id" validate:"required"`
	FromUserID string          `json:"from_user_id" validate:"required"`
	ToUserID   string          `json:"to_user_id" validate:"required,nefield=FromUserID"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
}

// SettleDebtResponse returns the settlement and a link to pay it.
type SettleDebtResponse struct {
	Settlement  *Settlement `json:"settlement"`
	PaymentLink string      `json:"payment_link"`
}

// ListSettlementsRequest lists a group's settlements.
type ListSettlementsRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

// ListSettlementsResponse holds settlements newest first.
type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// MarkSettlementCompleteRequest marks a settlement as paid.
type MarkSettlementCompleteRequest struct {
	SettlementID string `json:"settlement_id" validate:"required"`
}

// MarkSettlementCompleteResponse returns the updated settlement.
type MarkSettlementCompleteResponse struct {
	Settlement *Settlement `json:"settlement"`
}
