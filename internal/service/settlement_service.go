package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/mmynk/splitsavvy/internal/calculator"
	"github.com/mmynk/splitsavvy/internal/config"
	"github.com/mmynk/splitsavvy/internal/metrics"
	"github.com/mmynk/splitsavvy/internal/models"
	"github.com/mmynk/splitsavvy/internal/paylink"
	"github.com/mmynk/splitsavvy/internal/storage"
	"github.com/mmynk/splitsavvy/pkg/api"
)

// SettlementService implements the Connect SettlementService: group balances,
// the suggested transfers that clear them and the payments recorded against them.
type SettlementService struct {
	api.UnimplementedSettlementServiceHandler
	store   storage.Store
	metrics *metrics.Metrics

	applySettlements bool
	payLinkBase      string
}

// NewSettlementService creates a new SettlementService. m may be nil.
func NewSettlementService(store storage.Store, conf *config.Config, m *metrics.Metrics) *SettlementService {
	return &SettlementService{
		store:            store,
		metrics:          m,
		applySettlements: conf.Balances.ApplySettlements,
		payLinkBase:      conf.PayLink.BaseURL,
	}
}

// GetBalances computes every member's net balance and the transfers that
// settle the group.
func (s *SettlementService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetBalances request received", "group_id", groupID)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("GetBalances failed - group not found", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	expenses, err := s.groupExpenses(ctx, groupID)
	if err != nil {
		slog.Error("GetBalances failed - could not load expenses", "group_id", groupID, "error", err)
		return nil, storeError(err)
	}

	balances := calculator.ComputeNetBalances(expenses, group.Members)
	plan := calculator.Settle(balances)
	s.metrics.ObservePlan(len(plan.Transfers), len(plan.Residual))

	if len(plan.Residual) > 0 {
		slog.Warn("Settlement plan left balances unmatched",
			"group_id", groupID,
			"balance_sum", balances.Sum(),
			"residual", plan.Residual,
		)
	}

	slog.Info("GetBalances successful",
		"group_id", groupID,
		"expenses_count", len(expenses),
		"members_count", len(balances),
		"transfers_count", len(plan.Transfers),
	)

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:  toAPIBalances(balances),
		Transfers: toAPITransfers(plan.Transfers),
		Residual:  toAPIBalances(plan.Residual),
	}), nil
}

// groupExpenses loads the expenses of a group in calculator form. Completed
// settlements are appended as expenses when they count towards balances.
func (s *SettlementService) groupExpenses(ctx context.Context, groupID string) ([]calculator.Expense, error) {
	records, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses := make([]calculator.Expense, 0, len(records))
	for _, e := range records {
		expenses = append(expenses, toCalculatorExpense(e))
	}

	if !s.applySettlements {
		return expenses, nil
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for _, st := range settlements {
		if st.Settled {
			expenses = append(expenses, settlementAsExpense(st))
		}
	}
	return expenses, nil
}

// SettleDebt records a pending payment between two members and returns a
// payment link for it.
func (s *SettlementService) SettleDebt(ctx context.Context, req *connect.Request[api.SettleDebtRequest]) (*connect.Response[api.SettleDebtResponse], error) {
	slog.Info("SettleDebt request received",
		"group_id", req.Msg.GroupID,
		"from", req.Msg.FromUserID,
		"to", req.Msg.ToUserID,
		"amount", req.Msg.Amount,
	)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("SettleDebt failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}
	if err := checkMembers(group, req.Msg.FromUserID, req.Msg.ToUserID); err != nil {
		return nil, invalidArgument(err)
	}

	settlement := &models.Settlement{
		GroupID:    group.ID,
		FromUserID: req.Msg.FromUserID,
		ToUserID:   req.Msg.ToUserID,
		Amount:     req.Msg.Amount.Round(2),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("SettleDebt failed", "error", err)
		return nil, storeError(err)
	}

	link := paylink.Build(s.payLinkBase, settlement.FromUserID, settlement.ToUserID, settlement.Amount)

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "payment_link", link)

	return connect.NewResponse(&api.SettleDebtResponse{
		Settlement:  toAPISettlement(settlement),
		PaymentLink: link,
	}), nil
}

// ListSettlements returns a group's settlements, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	slog.Info("ListSettlements request received", "group_id", req.Msg.GroupID)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("ListSettlements failed - group not found", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListSettlements failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}

	slog.Info("ListSettlements successful", "group_id", req.Msg.GroupID, "count", len(out))

	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// MarkSettlementComplete confirms that a pending payment was made.
// Completing an already completed settlement keeps its original timestamp.
func (s *SettlementService) MarkSettlementComplete(ctx context.Context, req *connect.Request[api.MarkSettlementCompleteRequest]) (*connect.Response[api.MarkSettlementCompleteResponse], error) {
	slog.Info("MarkSettlementComplete request received", "settlement_id", req.Msg.SettlementID)

	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if err := s.store.MarkSettlementComplete(ctx, req.Msg.SettlementID, time.Now().Unix()); err != nil {
		slog.Error("MarkSettlementComplete failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, storeError(err)
	}

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		slog.Error("Failed to fetch updated settlement", "error", err)
		return nil, storeError(err)
	}

	slog.Info("Settlement completed", "settlement_id", settlement.ID, "settled_at", settlement.SettledAt)

	return connect.NewResponse(&api.MarkSettlementCompleteResponse{Settlement: toAPISettlement(settlement)}), nil
}
