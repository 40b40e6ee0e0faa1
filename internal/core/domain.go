package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// CategoryOther is applied when a transaction carries no category.
const CategoryOther = "other"

type (
	TransactionType string

	// Currency is reference data keyed by its ISO-4217 alpha code.
	// Rows are seeded by migration and never mutated at runtime.
	Currency struct {
		ID          int64
		Name        string
		Code        string // stored uppercase
		Symbol      string
		NumericCode int
		MinorUnit   int // decimal places
	}

	User struct {
		ID         uuid.UUID
		Username   string
		CurrencyID int64 // 0 means no default currency
		IsDeleted  bool
		CreatedAt  time.Time
		UpdatedAt  time.Time
	}

	// ExternalAccount binds a messaging-platform identity to a User.
	ExternalAccount struct {
		ID         uuid.UUID
		ExternalID string
		UserID     uuid.UUID
		Username   string
		FirstName  string
		LastName   string
		IsDeleted  bool
	}

	// Transaction is a single financial event. Amount is a non-negative
	// magnitude; the sign is implied by Type. OccurredAt is business time,
	// distinct from CreatedAt.
	Transaction struct {
		ID           uuid.UUID
		UserID       uuid.UUID
		CurrencyID   int64
		CurrencyCode string // populated on reads, not stored
		Amount       decimal.Decimal
		Description  string
		Category     string
		Type         TransactionType
		OccurredAt   time.Time
		IsDeleted    bool
		CreatedAt    time.Time
	}
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrCurrencyNotFound  = errors.New("currency not found")
	ErrNoDefaultCurrency = errors.New("no default currency")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidType       = errors.New("invalid transaction type")
)

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// HasDefaultCurrency reports whether the user has a stored default.
func (u User) HasDefaultCurrency() bool {
	return u.CurrencyID != 0
}

func (t Transaction) Validate() error {
	if t.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

// FormatAmount renders an amount at the currency's minor-unit precision.
// With no currency it falls back to two decimal places.
func FormatAmount(amount decimal.Decimal, currency *Currency) string {
	if currency == nil {
		return amount.StringFixed(2)
	}
	return amount.StringFixed(int32(currency.MinorUnit))
}

var naiveTimestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 date or date/time string. Strings
// without a zone offset are interpreted in the local zone so that a date a
// user types compares correctly against windows built from local midnight.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	lastErr := err
	for _, layout := range naiveTimestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
