// Package ledger implements the transaction-accounting core: recording
// income and expenses, listing, prefix-addressed deletion, and time-window
// analytics. Every outcome a user can correct (unknown currency, missing
// default, ambiguous reference, nothing found) is returned as reply text;
// only storage faults surface as errors.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dime/internal/amqp"
	"dime/internal/cache"
	"dime/internal/core"
	"dime/internal/storage"
	"dime/internal/timewindow"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50

	maxDisambiguationCandidates = 5
)

const msgNoDefaultCurrency = "Please set your default currency first. " +
	"Use /currency <CODE> or specify currency in your request (e.g., 'spent 100 USD')."

type Service struct {
	store      storage.Store
	events     *amqp.Client // optional, nil tolerated
	currencies *cache.LRU[*core.Currency]
	now        func() time.Time
}

func NewService(store storage.Store, events *amqp.Client) *Service {
	return &Service{
		store:      store,
		events:     events,
		currencies: cache.NewLRU[*core.Currency](64, time.Hour),
		now:        time.Now,
	}
}

// AddParams carries the arguments of an add-transaction intent. Date is the
// raw string as supplied; an unparseable date falls back to now.
type AddParams struct {
	Amount       decimal.Decimal
	Description  string
	Type         core.TransactionType
	CurrencyCode string
	Category     string
	Date         string
}

// Add records a transaction and returns the confirmation text.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, p AddParams) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return "User not found.", nil
	}
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	}

	if p.Amount.Sign() <= 0 {
		return "Amount must be greater than zero.", nil
	}
	if strings.TrimSpace(p.Description) == "" {
		return "Please provide a description for the transaction.", nil
	}

	currency, failure, err := s.resolveCurrency(ctx, user, p.CurrencyCode)
	if err != nil {
		return "", err
	}
	if failure != "" {
		return failure, nil
	}

	// Unparseable dates deliberately fall back to the current instant.
	occurredAt := s.now()
	if p.Date != "" {
		if t, parseErr := core.ParseTimestamp(p.Date); parseErr == nil {
			occurredAt = t
		}
	}

	category := p.Category
	if category == "" {
		category = core.CategoryOther
	}

	tx := &core.Transaction{
		UserID:      userID,
		CurrencyID:  currency.ID,
		Amount:      p.Amount,
		Description: p.Description,
		Category:    category,
		Type:        p.Type,
		OccurredAt:  occurredAt,
	}
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validate transaction: %w", err)
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}

	s.publishEvent(ctx, tx, amqp.EventRecorded)

	return fmt.Sprintf("Recorded %s: %s %s for %s.",
		tx.Type, core.FormatAmount(tx.Amount, currency), currency.Code, tx.Description), nil
}

// resolveCurrency applies the explicit > stored default > failure order.
// A non-empty failure string is the user-facing outcome; the explicit code
// becomes the user's default only when no default exists yet.
func (s *Service) resolveCurrency(ctx context.Context, user *core.User, explicitCode string) (*core.Currency, string, error) {
	if explicitCode != "" {
		currency, err := s.currencyByCode(ctx, explicitCode)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Sprintf("Currency %s not supported.", explicitCode), nil
		}
		if err != nil {
			return nil, "", fmt.Errorf("lookup currency: %w", err)
		}

		if !user.HasDefaultCurrency() {
			if err := s.store.SetUserCurrency(ctx, user.ID, currency.ID); err != nil {
				return nil, "", fmt.Errorf("set default currency: %w", err)
			}
			user.CurrencyID = currency.ID
			slog.InfoContext(ctx, "Set default currency from first explicit code",
				"user_id", user.ID, "code", currency.Code)
		}
		return currency, "", nil
	}

	if user.HasDefaultCurrency() {
		currency, err := s.store.GetCurrency(ctx, user.CurrencyID)
		if err != nil {
			return nil, "", fmt.Errorf("get default currency: %w", err)
		}
		return currency, "", nil
	}

	return nil, msgNoDefaultCurrency, nil
}

// ListRecent renders the user's newest transactions. The limit defaults to
// 10 and is capped at 50.
func (s *Service) ListRecent(ctx context.Context, userID uuid.UUID, limit int) (string, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	transactions, err := s.store.ListRecentTransactions(ctx, userID, limit)
	if err != nil {
		return "", fmt.Errorf("list transactions: %w", err)
	}
	if len(transactions) == 0 {
		return "You don't have any recorded transactions yet.", nil
	}

	lines := []string{"Here are your most recent transactions:"}
	for i, tx := range transactions {
		lines = append(lines, fmt.Sprintf("%d. %s | %s | %s %s | %s | %s | id: %s",
			i+1,
			tx.OccurredAt.Format("2006-01-02"),
			tx.Type,
			s.formatTxAmount(ctx, tx),
			tx.CurrencyCode,
			tx.Description,
			tx.Category,
			tx.ID))
	}
	return strings.Join(lines, "\n"), nil
}

// Delete soft-deletes the single active transaction whose canonical id
// starts with ref. Zero matches (including empty or malformed input) reads
// as not found; multiple matches produce a disambiguation listing and no
// mutation.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID, ref string) (string, error) {
	prefix := strings.TrimSpace(ref)
	if prefix == "" {
		return "Transaction not found for your account.", nil
	}

	matches, err := s.store.FindTransactionsByIDPrefix(ctx, userID, prefix)
	if err != nil {
		return "", fmt.Errorf("find transactions: %w", err)
	}

	switch {
	case len(matches) == 0:
		return "Transaction not found for your account.", nil

	case len(matches) > 1:
		lines := []string{"Multiple transactions match that ID prefix. " +
			"Please enter more characters from the transaction ID to narrow it down."}
		for _, tx := range matches[:min(len(matches), maxDisambiguationCandidates)] {
			lines = append(lines, fmt.Sprintf("- %s | %s | %s %s | %s",
				tx.ID,
				tx.OccurredAt.Format("2006-01-02"),
				s.formatTxAmount(ctx, tx),
				tx.CurrencyCode,
				tx.Description))
		}
		return strings.Join(lines, "\n"), nil
	}

	tx := matches[0]
	if err := s.store.SoftDeleteTransaction(ctx, tx.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "Transaction not found for your account.", nil
		}
		return "", fmt.Errorf("soft delete transaction: %w", err)
	}

	s.publishEvent(ctx, &tx, amqp.EventDeleted)

	return fmt.Sprintf("Deleted transaction %s: %s %s on %s - %s.",
		tx.ID,
		s.formatTxAmount(ctx, tx),
		tx.CurrencyCode,
		tx.OccurredAt.Format("2006-01-02"),
		tx.Description), nil
}

// Analytics sums income and expenses over the resolved window and renders
// the report. The currency code shown is the user's default; amounts are
// not converted across currencies.
func (s *Service) Analytics(ctx context.Context, userID uuid.UUID, timeRange, startDate, endDate string) (string, error) {
	window := timewindow.Resolve(timeRange, startDate, endDate, s.now())

	income, err := s.store.SumAmountByType(ctx, userID, core.Income, window.Start, window.End)
	if err != nil {
		return "", fmt.Errorf("sum income: %w", err)
	}
	expense, err := s.store.SumAmountByType(ctx, userID, core.Expense, window.Start, window.End)
	if err != nil {
		return "", fmt.Errorf("sum expense: %w", err)
	}
	balance := income.Sub(expense)

	var currency *core.Currency
	if user, err := s.store.GetUser(ctx, userID); err == nil && user.HasDefaultCurrency() {
		currency, err = s.store.GetCurrency(ctx, user.CurrencyID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("get default currency: %w", err)
		}
	}
	code := ""
	if currency != nil {
		code = currency.Code
	}

	startStr := "..."
	if !window.Start.IsZero() {
		startStr = window.Start.Format("2006-01-02")
	}
	endStr := "Now"
	if !window.End.IsZero() {
		endStr = window.End.Format("2006-01-02")
	}

	return fmt.Sprintf("📊 Analytics (%s):\n📅 %s - %s\nIncome: %s\nExpense: %s\nBalance: %s",
		window.Label,
		startStr, endStr,
		amountWithCode(income, currency, code),
		amountWithCode(expense, currency, code),
		amountWithCode(balance, currency, code)), nil
}

func amountWithCode(amount decimal.Decimal, currency *core.Currency, code string) string {
	return strings.TrimSpace(core.FormatAmount(amount, currency) + " " + code)
}

// formatTxAmount renders a transaction amount at its currency's precision,
// falling back to two decimals when the currency row is gone.
func (s *Service) formatTxAmount(ctx context.Context, tx core.Transaction) string {
	currency, err := s.currencyByCode(ctx, tx.CurrencyCode)
	if err != nil {
		return core.FormatAmount(tx.Amount, nil)
	}
	return core.FormatAmount(tx.Amount, currency)
}

func (s *Service) currencyByCode(ctx context.Context, code string) (*core.Currency, error) {
	key := strings.ToUpper(code)
	if currency, ok := s.currencies.Get(key); ok {
		return currency, nil
	}
	currency, err := s.store.GetCurrencyByCode(ctx, key)
	if err != nil {
		return nil, err
	}
	s.currencies.Set(key, currency)
	return currency, nil
}

func (s *Service) publishEvent(ctx context.Context, tx *core.Transaction, kind string) {
	if s.events == nil {
		return
	}
	event := amqp.NewTransactionEvent(tx.ID.String(), tx.UserID.String(), kind)
	if err := s.events.PublishTransactionEvent(ctx, event); err != nil {
		// The ledger write already succeeded; the event stream is best effort.
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", tx.ID, "kind", kind, "error", err)
	}
}
