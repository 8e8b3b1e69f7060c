package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/mmynk/splitsavvy/internal/calculator"
	"github.com/mmynk/splitsavvy/internal/models"
	"github.com/mmynk/splitsavvy/internal/storage"
	"github.com/mmynk/splitsavvy/pkg/api"
	"github.com/shopspring/decimal"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	api.UnimplementedExpenseServiceHandler
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// checkMembers returns an error naming the first user that is not in the group.
func checkMembers(group *models.Group, userIDs ...string) error {
	for _, id := range userIDs {
		if !group.HasMember(id) {
			return fmt.Errorf("user '%s' is not a member of group '%s'", id, group.Name)
		}
	}
	return nil
}

// AddExpense records an expense and how it is split.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"group_id", req.Msg.GroupID,
		"amount", req.Msg.Amount,
		"paid_by", req.Msg.PaidBy,
		"split_mode", req.Msg.SplitMode,
	)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("AddExpense failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	if err := checkMembers(group, req.Msg.PaidBy); err != nil {
		return nil, invalidArgument(err)
	}

	splits, err := s.splitExpense(group, req.Msg)
	if err != nil {
		slog.Warn("AddExpense rejected", "group_id", group.ID, "error", err)
		return nil, invalidArgument(err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		PaidBy:      req.Msg.PaidBy,
		Splits:      make([]models.Split, len(splits)),
	}
	for i, split := range splits {
		expense.Splits[i] = models.Split{ParticipantID: split.ParticipantID, Amount: split.Amount}
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("AddExpense failed", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "splits_count", len(expense.Splits))

	return connect.NewResponse(&api.AddExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

func (s *ExpenseService) splitExpense(group *models.Group, req *api.AddExpenseRequest) ([]calculator.Split, error) {
	switch req.SplitMode {
	case api.SplitCustom:
		splits := make([]calculator.Split, len(req.Splits))
		for i, split := range req.Splits {
			if err := checkMembers(group, split.UserID); err != nil {
				return nil, err
			}
			splits[i] = calculator.Split{ParticipantID: split.UserID, Amount: split.Amount}
		}
		if err := calculator.ValidateSplits(req.Amount, splits); err != nil {
			return nil, err
		}
		return splits, nil

	case api.SplitItemized:
		return itemizedSplits(group, req)

	default:
		return calculator.EqualSplit(req.Amount, req.PaidBy, group.Members)
	}
}

// itemizedSplits shares each item among its assignees and spreads the rest of
// the amount (tax, tip) in proportion to what each person ordered.
func itemizedSplits(group *models.Group, req *api.AddExpenseRequest) ([]calculator.Split, error) {
	items := make([]calculator.Item, len(req.Items))
	subtotal := decimal.Zero
	for i, item := range req.Items {
		if err := checkMembers(group, item.AssignedTo...); err != nil {
			return nil, err
		}
		items[i] = calculator.Item{
			Description: item.Description,
			Amount:      item.Amount,
			AssignedTo:  item.AssignedTo,
		}
		subtotal = subtotal.Add(item.Amount)
	}
	if !req.Subtotal.IsZero() {
		subtotal = req.Subtotal
	} else if len(items) == 0 {
		subtotal = req.Amount
	}
	if subtotal.GreaterThan(req.Amount) {
		return nil, fmt.Errorf("subtotal (%s) exceeds the total amount (%s)",
			subtotal.StringFixed(2), req.Amount.StringFixed(2))
	}

	personSplits, err := calculator.ItemizedSplit(items, req.Amount, subtotal, group.Members)
	if err != nil {
		return nil, err
	}

	// The exact shares must match the amount; the cent-rounded ones then add up to it.
	exact := make([]calculator.Split, len(personSplits))
	splits := make([]calculator.Split, 0, len(personSplits))
	for i, ps := range personSplits {
		exact[i] = calculator.Split{ParticipantID: ps.ParticipantID, Amount: ps.Subtotal.Add(ps.Tax)}
		if ps.Total.IsZero() {
			continue
		}
		splits = append(splits, calculator.Split{ParticipantID: ps.ParticipantID, Amount: ps.Total})
	}
	if err := calculator.ValidateSplits(req.Amount, exact); err != nil {
		return nil, err
	}
	return splits, nil
}

// ListExpenses returns a group's expenses, oldest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("ListExpenses failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	slog.Info("ListExpenses successful", "group_id", req.Msg.GroupID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
