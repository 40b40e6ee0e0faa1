// Package router dispatches extracted intents to the ledger.
package router

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dime/internal/core"
	"dime/internal/ledger"
	"dime/internal/nlu"
)

type Router struct {
	ledger *ledger.Service
}

func New(ledgerService *ledger.Service) *Router {
	return &Router{ledger: ledgerService}
}

// Dispatch executes a tool call on behalf of userID and returns the reply
// text. Unknown tool names are a user-visible outcome, not an error.
func (r *Router) Dispatch(ctx context.Context, userID uuid.UUID, call *nlu.ToolCall) (string, error) {
	switch call.Name {
	case nlu.ToolAddExpense:
		return r.add(ctx, userID, call.Arguments, core.Expense)

	case nlu.ToolAddIncome:
		return r.add(ctx, userID, call.Arguments, core.Income)

	case nlu.ToolGetAnalytics:
		return r.ledger.Analytics(ctx, userID,
			getString(call.Arguments, "time_range"),
			getString(call.Arguments, "start_date"),
			getString(call.Arguments, "end_date"))

	case nlu.ToolListTransactions:
		return r.ledger.ListRecent(ctx, userID, getInt(call.Arguments, "limit"))

	case nlu.ToolDeleteTransaction:
		return r.ledger.Delete(ctx, userID, getString(call.Arguments, "transaction_id"))

	default:
		slog.WarnContext(ctx, "Unknown function call", "name", call.Name)
		return "❌ Unknown function", nil
	}
}

func (r *Router) add(ctx context.Context, userID uuid.UUID, args map[string]any, txType core.TransactionType) (string, error) {
	// some models shorten currency_code to currency; accept both
	code := getString(args, "currency_code")
	if code == "" {
		code = getString(args, "currency")
	}
	return r.ledger.Add(ctx, userID, ledger.AddParams{
		Amount:       decimal.NewFromFloat(getFloat(args, "amount")),
		Description:  getString(args, "description"),
		Type:         txType,
		CurrencyCode: code,
		Category:     getString(args, "category"),
		Date:         getString(args, "date"),
	})
}

func getString(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

func getFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// getInt tolerates the number types JSON decoding and models produce,
// including numeric strings.
func getInt(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		var n int
		for _, c := range v {
			if c < '0' || c > '9' {
				return 0
			}
			n = n*10 + int(c-'0')
		}
		return n
	default:
		return 0
	}
}
