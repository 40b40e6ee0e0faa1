// Package storage defines the persistence boundary and its SQLite, Postgres
// and in-memory implementations. Every read of users and transactions
// filters soft-deleted rows; callers never see a deleted record.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dime/internal/core"
)

// ErrNotFound is returned when a requested record has no active row.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary consumed by the services.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *core.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*core.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*core.User, error)
	CreateExternalAccount(ctx context.Context, account *core.ExternalAccount) error
	SetUserCurrency(ctx context.Context, userID uuid.UUID, currencyID int64) error

	// Currencies
	GetCurrency(ctx context.Context, id int64) (*core.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*core.Currency, error)

	// Transactions
	CreateTransaction(ctx context.Context, tx *core.Transaction) error
	ListRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]core.Transaction, error)
	FindTransactionsByIDPrefix(ctx context.Context, userID uuid.UUID, prefix string) ([]core.Transaction, error)
	SoftDeleteTransaction(ctx context.Context, id uuid.UUID) error
	// SumAmountByType sums active transaction amounts of the given type in
	// [start, end); a zero bound is unbounded on that side.
	SumAmountByType(ctx context.Context, userID uuid.UUID, txType core.TransactionType, start, end time.Time) (decimal.Decimal, error)

	Close() error
}
