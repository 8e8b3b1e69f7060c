package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// SettlementServiceName is the fully-qualified name of the SettlementService
// service.
const SettlementServiceName = "splitsavvy.v1.SettlementService"

const (
	SettlementServiceGetBalancesProcedure            = "/splitsavvy.v1.SettlementService/GetBalances"
	SettlementServiceSettleDebtProcedure             = "/splitsavvy.v1.SettlementService/SettleDebt"
	SettlementServiceListSettlementsProcedure        = "/splitsavvy.v1.SettlementService/ListSettlements"
	SettlementServiceMarkSettlementCompleteProcedure = "/splitsavvy.v1.SettlementService/MarkSettlementComplete"
)

// SettlementServiceClient is a client for the splitsavvy.v1.SettlementService
// service.
type SettlementServiceClient interface {
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	SettleDebt(context.Context, *connect.Request[SettleDebtRequest]) (*connect.Response[SettleDebtResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	MarkSettlementComplete(context.Context, *connect.Request[MarkSettlementCompleteRequest]) (*connect.Response[MarkSettlementCompleteResponse], error)
}

// NewSettlementServiceClient constructs a client for the
// splitsavvy.v1.SettlementService service.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &settlementServiceClient{
		getBalances:            connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+SettlementServiceGetBalancesProcedure, opts...),
		settleDebt:             connect.NewClient[SettleDebtRequest, SettleDebtResponse](httpClient, baseURL+SettlementServiceSettleDebtProcedure, opts...),
		listSettlements:        connect.NewClient[ListSettlementsRequest, ListSettlementsResponse](httpClient, baseURL+SettlementServiceListSettlementsProcedure, opts...),
		markSettlementComplete: connect.NewClient[MarkSettlementCompleteRequest, MarkSettlementCompleteResponse](httpClient, baseURL+SettlementServiceMarkSettlementCompleteProcedure, opts...),
	}
}

type settlementServiceClient struct {
	getBalances            *connect.Client[GetBalancesRequest, GetBalancesResponse]
	settleDebt             *connect.Client[SettleDebtRequest, SettleDebtResponse]
	listSettlements        *connect.Client[ListSettlementsRequest, ListSettlementsResponse]
	markSettlementComplete *connect.Client[MarkSettlementCompleteRequest, MarkSettlementCompleteResponse]
}

func (c *settlementServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *settlementServiceClient) SettleDebt(ctx context.Context, req *connect.Request[SettleDebtRequest]) (*connect.Response[SettleDebtResponse], error) {
	return c.settleDebt.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *settlementServiceClient) MarkSettlementComplete(ctx context.Context, req *connect.Request[MarkSettlementCompleteRequest]) (*connect.Response[MarkSettlementCompleteResponse], error) {
	return c.markSettlementComplete.CallUnary(ctx, req)
}

// SettlementServiceHandler is an implementation of the
// splitsavvy.v1.SettlementService service.
type SettlementServiceHandler interface {
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	SettleDebt(context.Context, *connect.Request[SettleDebtRequest]) (*connect.Response[SettleDebtResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	MarkSettlementComplete(context.Context, *connect.Request[MarkSettlementCompleteRequest]) (*connect.Response[MarkSettlementCompleteResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	getBalances := connect.NewUnaryHandler(SettlementServiceGetBalancesProcedure, svc.GetBalances, opts...)
	settleDebt := connect.NewUnaryHandler(SettlementServiceSettleDebtProcedure, svc.SettleDebt, opts...)
	listSettlements := connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts...)
	markSettlementComplete := connect.NewUnaryHandler(SettlementServiceMarkSettlementCompleteProcedure, svc.MarkSettlementComplete, opts...)

	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case SettlementServiceSettleDebtProcedure:
			settleDebt.ServeHTTP(w, r)
		case SettlementServiceListSettlementsProcedure:
			listSettlements.ServeHTTP(w, r)
		case SettlementServiceMarkSettlementCompleteProcedure:
			markSettlementComplete.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all
// methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitsavvy.v1.SettlementService.GetBalances is not implemented"))
}

func (UnimplementedSettlementServiceHandler) SettleDebt(context.Context, *connect.Request[SettleDebtRequest]) (*connect.Response[SettleDebtResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitsavvy.v1.SettlementService.SettleDebt is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitsavvy.v1.SettlementService.ListSettlements is not implemented"))
}

func (UnimplementedSettlementServiceHandler) MarkSettlementComplete(context.Context, *connect.Request[MarkSettlementCompleteRequest]) (*connect.Response[MarkSettlementCompleteResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("splitsavvy.v1.SettlementService.MarkSettlementComplete is not implemented"))
}
