package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dime/internal/core"
)

func newTestUser(t *testing.T, s *MemoryStore) *core.User {
	t.Helper()
	u := &core.User{Username: "tester"}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func addTx(t *testing.T, s *MemoryStore, userID uuid.UUID, amount string, txType core.TransactionType, occurred time.Time) *core.Transaction {
	t.Helper()
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		t.Fatalf("parse amount: %v", err)
	}
	tx := &core.Transaction{
		UserID:      userID,
		CurrencyID:  1,
		Amount:      amt,
		Description: "tx",
		Category:    core.CategoryOther,
		Type:        txType,
		OccurredAt:  occurred,
	}
	if err := s.CreateTransaction(context.Background(), tx); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return tx
}

func TestMemoryStoreCurrencyLookup(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	c, err := s.GetCurrencyByCode(ctx, "usd")
	if err != nil {
		t.Fatalf("lookup should be case-insensitive: %v", err)
	}
	if c.Code != "USD" || c.MinorUnit != 2 {
		t.Fatalf("unexpected currency %+v", c)
	}

	if _, err := s.GetCurrencyByCode(ctx, "XXX"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreUserLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	u := newTestUser(t, s)

	if err := s.CreateExternalAccount(ctx, &core.ExternalAccount{
		ExternalID: "tg:42",
		UserID:     u.ID,
	}); err != nil {
		t.Fatalf("create external account: %v", err)
	}

	got, err := s.GetUserByExternalID(ctx, "tg:42")
	if err != nil {
		t.Fatalf("get by external id: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("got user %s want %s", got.ID, u.ID)
	}

	if err := s.SetUserCurrency(ctx, u.ID, 2); err != nil {
		t.Fatalf("set currency: %v", err)
	}
	got, err = s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.CurrencyID != 2 {
		t.Fatalf("currency id not persisted: %+v", got)
	}
}

func TestMemoryStoreListOrderAndSoftDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	u := newTestUser(t, s)

	old := addTx(t, s, u.ID, "10", core.Expense, time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	mid := addTx(t, s, u.ID, "20", core.Expense, time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC))
	newest := addTx(t, s, u.ID, "30", core.Expense, time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC))

	list, err := s.ListRecentTransactions(ctx, u.ID, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != newest.ID || list[1].ID != mid.ID {
		t.Fatalf("unexpected order: %+v", list)
	}

	if err := s.SoftDeleteTransaction(ctx, newest.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if err := s.SoftDeleteTransaction(ctx, newest.ID); err != ErrNotFound {
		t.Fatalf("second delete should be not found, got %v", err)
	}

	list, err = s.ListRecentTransactions(ctx, u.ID, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("soft-deleted row still listed: %+v", list)
	}
	_ = old
}

func TestMemoryStorePrefixMatch(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	u := newTestUser(t, s)

	tx := addTx(t, s, u.ID, "10", core.Expense, time.Now())

	matches, err := s.FindTransactionsByIDPrefix(ctx, u.ID, tx.ID.String()[:8])
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != tx.ID {
		t.Fatalf("unexpected matches: %+v", matches)
	}

	matches, err = s.FindTransactionsByIDPrefix(ctx, u.ID, "zzzz")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected no matches, got %+v", matches)
	}
}

func TestMemoryStoreSumWindow(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	u := newTestUser(t, s)

	addTx(t, s, u.ID, "100", core.Income, time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC))
	addTx(t, s, u.ID, "50", core.Expense, time.Date(2022, 1, 20, 0, 0, 0, 0, time.UTC))
	addTx(t, s, u.ID, "200", core.Income, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC))

	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2022, 12, 31, 0, 0, 0, 0, time.UTC)

	income, err := s.SumAmountByType(ctx, u.ID, core.Income, start, end)
	if err != nil {
		t.Fatalf("sum income: %v", err)
	}
	if !income.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("income sum: got %s want 100", income)
	}

	// end bound is exclusive
	endExcl := time.Date(2022, 1, 20, 0, 0, 0, 0, time.UTC)
	expense, err := s.SumAmountByType(ctx, u.ID, core.Expense, start, endExcl)
	if err != nil {
		t.Fatalf("sum expense: %v", err)
	}
	if !expense.IsZero() {
		t.Fatalf("exclusive end violated: got %s", expense)
	}
}
