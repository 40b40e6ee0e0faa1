package router

import (
	"context"
	"strings"
	"testing"

	"dime/internal/core"
	"dime/internal/ledger"
	"dime/internal/nlu"
	"dime/internal/storage"
)

func newTestRouter(t *testing.T) (*Router, *core.User) {
	t.Helper()
	store := storage.NewMemoryStore()
	user := &core.User{Username: "tester"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return New(ledger.NewService(store, nil)), user
}

func TestDispatchAddExpense(t *testing.T) {
	r, user := newTestRouter(t)

	reply, err := r.Dispatch(context.Background(), user.ID, &nlu.ToolCall{
		Name: nlu.ToolAddExpense,
		Arguments: map[string]any{
			"amount":        42.5,
			"description":   "groceries",
			"currency_code": "EUR",
			"category":      "food",
		},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(reply, "Recorded expense: 42.50 EUR for groceries.") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestDispatchAddIncome(t *testing.T) {
	r, user := newTestRouter(t)

	reply, err := r.Dispatch(context.Background(), user.ID, &nlu.ToolCall{
		Name: nlu.ToolAddIncome,
		Arguments: map[string]any{
			"amount":        1000,
			"description":   "salary",
			"currency_code": "USD",
		},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(reply, "Recorded income: 1000.00 USD for salary.") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

// currency_code is the documented argument name; currency is tolerated as
// a model shorthand.
func TestDispatchAddAcceptsCurrencyAlias(t *testing.T) {
	r, user := newTestRouter(t)

	reply, err := r.Dispatch(context.Background(), user.ID, &nlu.ToolCall{
		Name: nlu.ToolAddExpense,
		Arguments: map[string]any{
			"amount":      9.0,
			"description": "snack",
			"currency":    "GBP",
		},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(reply, "Recorded expense: 9.00 GBP for snack.") {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestDispatchAnalyticsForwardsAllArguments(t *testing.T) {
	r, user := newTestRouter(t)
	ctx := context.Background()

	if _, err := r.Dispatch(ctx, user.ID, &nlu.ToolCall{
		Name: nlu.ToolAddExpense,
		Arguments: map[string]any{
			"amount": 50.0, "description": "old", "currency_code": "USD", "date": "2022-05-10",
		},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	reply, err := r.Dispatch(ctx, user.ID, &nlu.ToolCall{
		Name: nlu.ToolGetAnalytics,
		Arguments: map[string]any{
			"start_date": "2022-01-01",
			"end_date":   "2022-12-31",
		},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(reply, "2022-01-01 to 2022-12-31") {
		t.Fatalf("custom range label missing: %q", reply)
	}
	if !strings.Contains(reply, "Expense: 50.00 USD") {
		t.Fatalf("windowed sum wrong: %q", reply)
	}
}

func TestDispatchListLimitVariants(t *testing.T) {
	r, user := newTestRouter(t)
	ctx := context.Background()

	for _, limit := range []any{float64(3), "3", "abc", nil} {
		args := map[string]any{}
		if limit != nil {
			args["limit"] = limit
		}
		reply, err := r.Dispatch(ctx, user.ID, &nlu.ToolCall{
			Name:      nlu.ToolListTransactions,
			Arguments: args,
		})
		if err != nil {
			t.Fatalf("dispatch limit %v: %v", limit, err)
		}
		if reply != "You don't have any recorded transactions yet." {
			t.Fatalf("limit %v: unexpected reply %q", limit, reply)
		}
	}
}

func TestDispatchDelete(t *testing.T) {
	r, user := newTestRouter(t)
	ctx := context.Background()

	reply, err := r.Dispatch(ctx, user.ID, &nlu.ToolCall{
		Name:      nlu.ToolDeleteTransaction,
		Arguments: map[string]any{"transaction_id": "deadbeef"},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if reply != "Transaction not found for your account." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestDispatchUnknownFunction(t *testing.T) {
	r, user := newTestRouter(t)

	reply, err := r.Dispatch(context.Background(), user.ID, &nlu.ToolCall{
		Name: "transfer_funds",
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if reply != "❌ Unknown function" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}
