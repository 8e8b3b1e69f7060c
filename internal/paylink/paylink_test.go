package paylink

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		from   string
		to     string
		amount string
		want   string
	}{
		{
			name:   "two decimals",
			base:   "https://splitsavvy.app/pay",
			from:   "alice",
			to:     "bob",
			amount: "33.333",
			want:   "https://splitsavvy.app/pay?from=alice&to=bob&amount=33.33",
		},
		{
			name:   "pads whole amounts",
			base:   "https://splitsavvy.app/pay",
			from:   "a",
			to:     "b",
			amount: "5",
			want:   "https://splitsavvy.app/pay?from=a&to=b&amount=5.00",
		},
		{
			name:   "escapes ids and keeps existing query",
			base:   "http://localhost/pay?src=app",
			from:   "a b",
			to:     "c&d",
			amount: "1.5",
			want:   "http://localhost/pay?src=app&from=a+b&to=c%26d&amount=1.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build(tt.base, tt.from, tt.to, decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse(t *testing.T) {
	link, err := Parse(Build("https://splitsavvy.app/pay", "a b", "c&d", decimal.RequireFromString("12.5")))
	require.NoError(t, err)
	assert.Equal(t, "a b", link.From)
	assert.Equal(t, "c&d", link.To)
	assert.True(t, link.Amount.Equal(decimal.RequireFromString("12.50")))

	bad := []string{
		"https://splitsavvy.app/pay?to=b&amount=1.00",
		"https://splitsavvy.app/pay?from=a&to=b&amount=abc",
		"https://splitsavvy.app/pay?from=a&to=b&amount=0.00",
		"://bad",
	}
	for _, raw := range bad {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidLink, raw)
	}
}

func TestPayRoute(t *testing.T) {
	r := mux.NewRouter()
	RegisterRoutes(r)

	t.Run("ok", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pay?from=a&to=b&amount=7.25", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var link Link
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
		assert.Equal(t, "a", link.From)
		assert.Equal(t, "b", link.To)
		assert.Equal(t, "7.25", link.Amount.StringFixed(2))
	})

	t.Run("bad request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pay?from=a", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid payment link")
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pay?from=a&to=b&amount=1", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
