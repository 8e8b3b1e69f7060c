package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/mmynk/splitsavvy/pkg/api"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// sharesOf maps user ID to share for easy assertions.
func sharesOf(e *api.Expense) map[string]string {
	out := make(map[string]string, len(e.Splits))
	for _, s := range e.Splits {
		out[s.UserID] = s.Amount.StringFixed(2)
	}
	return out
}

func TestAddExpense_Equal(t *testing.T) {
	c := setupTestServer(t, nil)
	group, ids := createGroup(t, c, "Trip", "Alice", "Bob", "Charlie")

	resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupID:     group.ID,
		Description: "Dinner",
		Amount:      d("100"),
		PaidBy:      ids[0],
	}))
	require.NoError(t, err)

	e := resp.Msg.Expense
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, ids[0], e.PaidBy)
	assert.Equal(t, map[string]string{
		ids[1]: "33.34",
		ids[2]: "33.33",
		ids[0]: "33.33",
	}, sharesOf(e))

	sum := decimal.Zero
	for _, s := range e.Splits {
		sum = sum.Add(s.Amount)
	}
	assert.True(t, sum.Equal(d("100")), "splits sum to %s", sum)
}

func TestAddExpense_Custom(t *testing.T) {
	c := setupTestServer(t, nil)
	group, ids := createGroup(t, c, "Flat", "Alice", "Bob")

	resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupID:     group.ID,
		Description: "Groceries",
		Amount:      d("50"),
		PaidBy:      ids[1],
		SplitMode:   api.SplitCustom,
		Splits: []api.Split{
			{UserID: ids[0], Amount: d("30")},
			{UserID: ids[1], Amount: d("20")},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{ids[0]: "30.00", ids[1]: "20.00"}, sharesOf(resp.Msg.Expense))
}

func TestAddExpense_Itemized(t *testing.T) {
	c := setupTestServer(t, nil)
	group, ids := createGroup(t, c, "Lunch", "Alice", "Bob")

	// $60 of food plus $6 tax: Alice ordered $40, Bob $20.
	resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupID:     group.ID,
		Description: "Lunch",
		Amount:      d("66"),
		PaidBy:      ids[0],
		SplitMode:   api.SplitItemized,
		Items: []api.Item{
			{Description: "Pizza", Amount: d("40"), AssignedTo: []string{ids[0]}},
			{Description: "Salad", Amount: d("20"), AssignedTo: []string{ids[1]}},
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{ids[0]: "44.00", ids[1]: "22.00"}, sharesOf(resp.Msg.Expense))
}

func TestAddExpense_ItemizedRoundsExactly(t *testing.T) {
	c := setupTestServer(t, nil)
	group, ids := createGroup(t, c, "Lunch", "Alice", "Bob", "Charlie")

	resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
		GroupID:     group.ID,
		Description: "Shared platter",
		Amount:      d("10"),
		PaidBy:      ids[0],
		SplitMode:   api.SplitItemized,
		Items: []api.Item{
			{Description: "Platter", Amount: d("10"), AssignedTo: ids},
		},
	}))
	require.NoError(t, err)

	sum := decimal.Zero
	for _, s := range resp.Msg.Expense.Splits {
		sum = sum.Add(s.Amount)
	}
	assert.True(t, sum.Equal(d("10")), "splits sum to %s", sum)
}

func TestAddExpense_ItemizedManyMembers(t *testing.T) {
	c := setupTestServer(t, nil)
	group, ids := createGroup(t, c, "Office", "A", "B", "C", "D", "E", "F")

	tests := []struct {
		name  string
		items []api.Item
	}{
		{name: "no items", items: nil},
		{name: "one shared item", items: []api.Item{{Description: "Cake", Amount: d("1.00"), AssignedTo: ids}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(&api.AddExpenseRequest{
				GroupID:     group.ID,
				Description: "Cake",
				Amount:      d("1.00"),
				PaidBy:      ids[0],
				SplitMode:   api.SplitItemized,
				Items:       tt.items,
			}))
			require.NoError(t, err)

			splits := resp.Msg.Expense.Splits
			require.Len(t, splits, 6)
			sum := decimal.Zero
			counts := map[string]int{}
			for _, s := range splits {
				sum = sum.Add(s.Amount)
				counts[s.Amount.StringFixed(2)]++
			}
			assert.True(t, sum.Equal(d("1.00")), "splits sum to %s", sum)
			assert.Equal(t, map[string]int{"0.17": 4, "0.16": 2}, counts)
		})
	}
}

func TestAddExpense_Invalid(t *testing.T) {
	c := setupTestServer(t, nil)
	group, ids := createGroup(t, c, "Trip", "Alice", "Bob")
	outsider := addUsers(t, c, "Mallory")[0]

	tests := []struct {
		name string
		req  *api.AddExpenseRequest
		code connect.Code
	}{
		{
			name: "zero amount",
			req:  &api.AddExpenseRequest{GroupID: group.ID, Description: "x", PaidBy: ids[0]},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown split mode",
			req:  &api.AddExpenseRequest{GroupID: group.ID, Description: "x", Amount: d("10"), PaidBy: ids[0], SplitMode: "random"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "payer outside group",
			req:  &api.AddExpenseRequest{GroupID: group.ID, Description: "x", Amount: d("10"), PaidBy: outsider},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "custom splits do not add up",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Description: "x", Amount: d("10"), PaidBy: ids[0], SplitMode: api.SplitCustom,
				Splits: []api.Split{{UserID: ids[0], Amount: d("4")}, {UserID: ids[1], Amount: d("5")}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "custom split for outsider",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Description: "x", Amount: d("10"), PaidBy: ids[0], SplitMode: api.SplitCustom,
				Splits: []api.Split{{UserID: outsider, Amount: d("10")}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "subtotal above amount",
			req: &api.AddExpenseRequest{
				GroupID: group.ID, Description: "x", Amount: d("10"), PaidBy: ids[0], SplitMode: api.SplitItemized,
				Items: []api.Item{{Amount: d("12"), AssignedTo: []string{ids[1]}}},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown group",
			req:  &api.AddExpenseRequest{GroupID: "nonexistent", Description: "x", Amount: d("10"), PaidBy: ids[0]},
			code: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.expenses.AddExpense(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.code)
		})
	}
}

func TestListAndDeleteExpenses(t *testing.T) {
	c := setupTestServer(t, nil)
	group, ids := createGroup(t, c, "Trip", "Alice", "Bob")
	ctx := context.Background()

	for _, desc := range []string{"Fuel", "Hotel"} {
		_, err := c.expenses.AddExpense(ctx, connect.NewRequest(&api.AddExpenseRequest{
			GroupID: group.ID, Description: desc, Amount: d("20"), PaidBy: ids[0],
		}))
		require.NoError(t, err)
	}

	list, err := c.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Expenses, 2)
	assert.Equal(t, "Fuel", list.Msg.Expenses[0].Description)
	assert.Equal(t, "Hotel", list.Msg.Expenses[1].Description)

	_, err = c.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: list.Msg.Expenses[0].ID}))
	require.NoError(t, err)

	list, err = c.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Expenses, 1)

	_, err = c.expenses.DeleteExpense(ctx, connect.NewRequest(&api.DeleteExpenseRequest{ExpenseID: "nonexistent"}))
	assertCode(t, err, connect.CodeNotFound)

	_, err = c.expenses.ListExpenses(ctx, connect.NewRequest(&api.ListExpensesRequest{GroupID: "nonexistent"}))
	assertCode(t, err, connect.CodeNotFound)
}
