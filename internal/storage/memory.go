package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dime/internal/core"
)

// MemoryStore keeps everything in maps behind one mutex. It backs the
// memory data backend and the service tests. Currencies are pre-seeded with
// the same reference set the SQL migrations install.
type MemoryStore struct {
	mu           sync.Mutex
	users        map[uuid.UUID]*core.User
	external     map[string]*core.ExternalAccount // keyed by external ID
	currencies   map[int64]*core.Currency
	transactions map[uuid.UUID]*core.Transaction
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:        make(map[uuid.UUID]*core.User),
		external:     make(map[string]*core.ExternalAccount),
		currencies:   make(map[int64]*core.Currency),
		transactions: make(map[uuid.UUID]*core.Transaction),
	}
	for i := range seedCurrencies {
		c := seedCurrencies[i]
		s.currencies[c.ID] = &c
	}
	return s
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok || u.IsDeleted {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) GetUserByExternalID(ctx context.Context, externalID string) (*core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.external[externalID]
	if !ok || acct.IsDeleted {
		return nil, ErrNotFound
	}
	u, ok := s.users[acct.UserID]
	if !ok || u.IsDeleted {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStore) CreateExternalAccount(ctx context.Context, account *core.ExternalAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	cp := *account
	s.external[account.ExternalID] = &cp
	return nil
}

func (s *MemoryStore) SetUserCurrency(ctx context.Context, userID uuid.UUID, currencyID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || u.IsDeleted {
		return ErrNotFound
	}
	u.CurrencyID = currencyID
	u.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) GetCurrency(ctx context.Context, id int64) (*core.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.currencies[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryStore) GetCurrencyByCode(ctx context.Context, code string) (*core.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code = strings.ToUpper(code)
	for _, c := range s.currencies {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	tx.CreatedAt = time.Now()
	if c, ok := s.currencies[tx.CurrencyID]; ok {
		tx.CurrencyCode = c.Code
	}
	cp := *tx
	s.transactions[tx.ID] = &cp
	return nil
}

func (s *MemoryStore) ListRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.UserID == userID && !tx.IsDeleted {
			out = append(out, *tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) FindTransactionsByIDPrefix(ctx context.Context, userID uuid.UUID, prefix string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.UserID == userID && !tx.IsDeleted && strings.HasPrefix(tx.ID.String(), prefix) {
			out = append(out, *tx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *MemoryStore) SoftDeleteTransaction(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[id]
	if !ok || tx.IsDeleted {
		return ErrNotFound
	}
	tx.IsDeleted = true
	return nil
}

func (s *MemoryStore) SumAmountByType(ctx context.Context, userID uuid.UUID, txType core.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for _, tx := range s.transactions {
		if tx.UserID != userID || tx.IsDeleted || tx.Type != txType {
			continue
		}
		if !start.IsZero() && tx.OccurredAt.Before(start) {
			continue
		}
		if !end.IsZero() && !tx.OccurredAt.Before(end) {
			continue
		}
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

func (s *MemoryStore) Close() error { return nil }
