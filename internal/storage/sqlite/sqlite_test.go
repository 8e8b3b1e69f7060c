package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsavvy/internal/models"
	"github.com/mmynk/splitsavvy/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUsers(t *testing.T, store *SQLiteStore, names ...string) []string {
	t.Helper()

	ids := make([]string, len(names))
	for i, name := range names {
		user := &models.User{Name: name}
		if err := store.CreateUser(context.Background(), user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		ids[i] = user.ID
	}
	return ids
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		user := &models.User{Name: "Alice"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if user.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetUser(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "Alice" {
			t.Errorf("Name mismatch: got %s, want Alice", got.Name)
		}
	})

	t.Run("ListUsers returns users in creation order", func(t *testing.T) {
		createUsers(t, store, "Bob", "Charlie")

		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 3 {
			t.Fatalf("Expected 3 users, got %d", len(users))
		}
		if users[0].Name != "Alice" || users[2].Name != "Charlie" {
			t.Errorf("Unexpected order: %s, %s, %s", users[0].Name, users[1].Name, users[2].Name)
		}
	})

	t.Run("GetUser returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetUser(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ids := createUsers(t, store, "Alice", "Bob", "Charlie")

	group := &models.Group{Name: "Roommates", Members: ids[:2]}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("GetGroup retrieves members in join order", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Name != "Roommates" {
			t.Errorf("Name mismatch: got %s", got.Name)
		}
		if len(got.Members) != 2 || got.Members[0] != ids[0] || got.Members[1] != ids[1] {
			t.Errorf("Members mismatch: got %v", got.Members)
		}
	})

	t.Run("AddGroupMember is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			if err := store.AddGroupMember(ctx, group.ID, ids[2]); err != nil {
				t.Fatalf("AddGroupMember failed: %v", err)
			}
		}
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 3 || got.Members[2] != ids[2] {
			t.Errorf("Members mismatch: got %v", got.Members)
		}
	})

	t.Run("AddGroupMember to missing group", func(t *testing.T) {
		err := store.AddGroupMember(ctx, "nonexistent-id", ids[0])
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("RemoveGroupMember", func(t *testing.T) {
		if err := store.RemoveGroupMember(ctx, group.ID, ids[1]); err != nil {
			t.Fatalf("RemoveGroupMember failed: %v", err)
		}
		err := store.RemoveGroupMember(ctx, group.ID, ids[1])
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second removal, got %v", err)
		}

		got, _ := store.GetGroup(ctx, group.ID)
		if got.HasMember(ids[1]) {
			t.Error("Expected member to be removed")
		}
	})

	t.Run("ListGroups includes members", func(t *testing.T) {
		other := &models.Group{Name: "Trip", Members: []string{ids[1]}}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		groups, err := store.ListGroups(ctx)
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(groups) != 2 {
			t.Fatalf("Expected 2 groups, got %d", len(groups))
		}
		if len(groups[0].Members) != 2 || len(groups[1].Members) != 1 {
			t.Errorf("Unexpected members: %v, %v", groups[0].Members, groups[1].Members)
		}
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ids := createUsers(t, store, "Alice", "Bob")

	group := &models.Group{Name: "Dinner", Members: ids}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		Description: "Pizza",
		Amount:      decimal.RequireFromString("33.33"),
		PaidBy:      ids[0],
		Splits: []models.Split{
			{ParticipantID: ids[1], Amount: decimal.RequireFromString("16.67")},
			{ParticipantID: ids[0], Amount: decimal.RequireFromString("16.66")},
		},
	}
	if err := store.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	t.Run("GetExpense keeps exact amounts and split order", func(t *testing.T) {
		got, err := store.GetExpense(ctx, expense.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(expense.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", got.Amount, expense.Amount)
		}
		if len(got.Splits) != 2 {
			t.Fatalf("Expected 2 splits, got %d", len(got.Splits))
		}
		for i, split := range got.Splits {
			want := expense.Splits[i]
			if split.ParticipantID != want.ParticipantID || !split.Amount.Equal(want.Amount) {
				t.Errorf("Split %d mismatch: got %+v, want %+v", i, split, want)
			}
		}
	})

	t.Run("ListExpensesByGroup", func(t *testing.T) {
		second := &models.Expense{
			GroupID:     group.ID,
			Description: "Taxi",
			Amount:      decimal.NewFromInt(20),
			PaidBy:      ids[1],
			Splits:      []models.Split{{ParticipantID: ids[0], Amount: decimal.NewFromInt(20)}},
		}
		if err := store.CreateExpense(ctx, second); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}

		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(expenses))
		}
		if expenses[0].Description != "Pizza" || len(expenses[0].Splits) != 2 {
			t.Errorf("Unexpected first expense: %+v", expenses[0])
		}
		if expenses[1].Description != "Taxi" || len(expenses[1].Splits) != 1 {
			t.Errorf("Unexpected second expense: %+v", expenses[1])
		}
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		if err := store.DeleteExpense(ctx, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		if _, err := store.GetExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteExpense(ctx, expense.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("DeleteGroup cascades to expenses", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("Expected no expenses after group delete, got %d", len(expenses))
		}
		if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestSQLiteStore_Settlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	ids := createUsers(t, store, "Alice", "Bob")

	group := &models.Group{Name: "Flat", Members: ids}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	first := &models.Settlement{GroupID: group.ID, FromUserID: ids[1], ToUserID: ids[0], Amount: decimal.NewFromInt(50), CreatedAt: 100}
	second := &models.Settlement{GroupID: group.ID, FromUserID: ids[0], ToUserID: ids[1], Amount: decimal.RequireFromString("0.5"), CreatedAt: 200}
	for _, s := range []*models.Settlement{first, second} {
		if err := store.CreateSettlement(ctx, s); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}
	}

	t.Run("ListSettlementsByGroup returns newest first", func(t *testing.T) {
		settlements, err := store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
		if len(settlements) != 2 {
			t.Fatalf("Expected 2 settlements, got %d", len(settlements))
		}
		if settlements[0].ID != second.ID {
			t.Errorf("Expected newest settlement first, got %s", settlements[0].ID)
		}
		if settlements[0].Settled {
			t.Error("Expected new settlement to be pending")
		}
	})

	t.Run("MarkSettlementComplete", func(t *testing.T) {
		if err := store.MarkSettlementComplete(ctx, first.ID, 300); err != nil {
			t.Fatalf("MarkSettlementComplete failed: %v", err)
		}
		// Completing twice keeps the first timestamp
		if err := store.MarkSettlementComplete(ctx, first.ID, 400); err != nil {
			t.Fatalf("MarkSettlementComplete failed: %v", err)
		}

		got, err := store.GetSettlement(ctx, first.ID)
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if !got.Settled || got.SettledAt != 300 {
			t.Errorf("Expected settled at 300, got settled=%v at %d", got.Settled, got.SettledAt)
		}
		if !got.Amount.Equal(decimal.NewFromInt(50)) {
			t.Errorf("Amount mismatch: got %s", got.Amount)
		}
	})

	t.Run("MarkSettlementComplete on missing settlement", func(t *testing.T) {
		err := store.MarkSettlementComplete(ctx, "nonexistent-id", 1)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
