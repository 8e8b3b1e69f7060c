package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec(t *testing.T) {
	codec := jsonCodec{}
	assert.Equal(t, "json", codec.Name())

	t.Run("empty body leaves message untouched", func(t *testing.T) {
		req := GetGroupRequest{GroupID: "g1"}
		require.NoError(t, codec.Unmarshal(nil, &req))
		assert.Equal(t, "g1", req.GroupID)
	})

	t.Run("money travels as strings", func(t *testing.T) {
		data, err := codec.Marshal(&Transfer{From: "a", To: "b", Amount: decimal.RequireFromString("33.33")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"from":"a","to":"b","amount":"33.33"}`, string(data))
	})

	t.Run("numeric amounts are accepted", func(t *testing.T) {
		var req SettleDebtRequest
		require.NoError(t, codec.Unmarshal([]byte(`{"group_id":"g","amount":12.5}`), &req))
		assert.True(t, req.Amount.Equal(decimal.RequireFromString("12.50")))
	})
}
