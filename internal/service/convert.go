package service

import (
	"github.com/mmynk/splitsavvy/internal/calculator"
	"github.com/mmynk/splitsavvy/internal/models"
	"github.com/mmynk/splitsavvy/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}

func toAPIGroup(g *models.Group) *api.Group {
	members := g.Members
	if members == nil {
		members = []string{}
	}
	return &api.Group{ID: g.ID, Name: g.Name, Members: members, CreatedAt: g.CreatedAt}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	splits := make([]api.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = api.Split{UserID: s.ParticipantID, Amount: s.Amount}
	}
	return &api.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		Description: e.Description,
		Amount:      e.Amount,
		PaidBy:      e.PaidBy,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount,
		CreatedAt:  s.CreatedAt,
		Settled:    s.Settled,
		SettledAt:  s.SettledAt,
	}
}

func toAPIBalances(balances []calculator.Balance) []api.Balance {
	out := make([]api.Balance, len(balances))
	for i, b := range balances {
		out[i] = api.Balance{UserID: b.ParticipantID, Amount: b.Amount}
	}
	return out
}

func toAPITransfers(transfers []calculator.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{From: t.From, To: t.To, Amount: t.Amount}
	}
	return out
}

// toCalculatorExpense drops the bookkeeping fields the balance math does not need.
func toCalculatorExpense(e *models.Expense) calculator.Expense {
	splits := make([]calculator.Split, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = calculator.Split{ParticipantID: s.ParticipantID, Amount: s.Amount}
	}
	return calculator.Expense{PayerID: e.PaidBy, Amount: e.Amount, Splits: splits}
}

// settlementAsExpense turns a completed payment into the expense that cancels
// the debt: the payer fronts Amount entirely on behalf of the receiver.
func settlementAsExpense(s *models.Settlement) calculator.Expense {
	return calculator.Expense{
		PayerID: s.FromUserID,
		Amount:  s.Amount,
		Splits:  []calculator.Split{{ParticipantID: s.ToUserID, Amount: s.Amount}},
	}
}
