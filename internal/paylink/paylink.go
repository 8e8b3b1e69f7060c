// Package paylink builds and decodes the display-only payment links handed out
// when a debt is settled. Links are informational; nothing is charged.
package paylink

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// ErrInvalidLink is returned (wrapped) for links that cannot be decoded.
var ErrInvalidLink = errors.New("invalid payment link")

// Link is a decoded payment request.
type Link struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Build returns base?from=<from>&to=<to>&amount=<amount with two decimals>.
// If base already carries a query, the parameters are appended to it.
func Build(base, from, to string, amount decimal.Decimal) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep +
		"from=" + url.QueryEscape(from) +
		"&to=" + url.QueryEscape(to) +
		"&amount=" + amount.StringFixed(2)
}

// Parse decodes a link produced by Build.
func Parse(raw string) (Link, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Link{}, fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	return fromQuery(u.Query())
}

func fromQuery(q url.Values) (Link, error) {
	link := Link{From: q.Get("from"), To: q.Get("to")}
	if link.From == "" || link.To == "" {
		return Link{}, fmt.Errorf("%w: from and to are required", ErrInvalidLink)
	}

	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		return Link{}, fmt.Errorf("%w: bad amount %q", ErrInvalidLink, q.Get("amount"))
	}
	if !amount.IsPositive() {
		return Link{}, fmt.Errorf("%w: amount must be positive", ErrInvalidLink)
	}
	link.Amount = amount
	return link, nil
}

// RegisterRoutes mounts GET /pay, which echoes the decoded link as JSON.
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/pay", handlePay).Methods(http.MethodGet)
}

func handlePay(w http.ResponseWriter, r *http.Request) {
	link, err := fromQuery(r.URL.Query())
	if err != nil {
		slog.Warn("Invalid payment link", "query", r.URL.RawQuery, "error", err)
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, link)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
