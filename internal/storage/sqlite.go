package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"dime/internal/core"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunSQLiteMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user *core.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, currency_id) VALUES (?, ?, ?)`,
		user.ID.String(), user.Username, nullableID(user.CurrencyID))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetUser(ctx context.Context, id uuid.UUID) (*core.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, COALESCE(currency_id, 0)
		 FROM users WHERE id = ? AND is_deleted = 0`, id.String())
	return scanUser(row)
}

func (s *SQLiteStore) GetUserByExternalID(ctx context.Context, externalID string) (*core.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT u.id, u.username, COALESCE(u.currency_id, 0)
		 FROM users u
		 JOIN external_accounts ea ON ea.user_id = u.id
		 WHERE ea.external_id = ? AND ea.is_deleted = 0 AND u.is_deleted = 0`,
		externalID)
	return scanUser(row)
}

func (s *SQLiteStore) CreateExternalAccount(ctx context.Context, account *core.ExternalAccount) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO external_accounts (id, external_id, user_id, username, first_name, last_name)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID.String(), account.ExternalID, account.UserID.String(),
		account.Username, account.FirstName, account.LastName)
	if err != nil {
		return fmt.Errorf("insert external account: %w", err)
	}
	return nil
}

func (s *SQLiteStore) SetUserCurrency(ctx context.Context, userID uuid.UUID, currencyID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET currency_id = ?, updated_at = datetime('now')
		 WHERE id = ? AND is_deleted = 0`,
		currencyID, userID.String())
	if err != nil {
		return fmt.Errorf("update user currency: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) GetCurrency(ctx context.Context, id int64) (*core.Currency, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, code, symbol, numeric_code, minor_unit
		 FROM currencies WHERE id = ?`, id)
	return scanCurrency(row)
}

func (s *SQLiteStore) GetCurrencyByCode(ctx context.Context, code string) (*core.Currency, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, code, symbol, numeric_code, minor_unit
		 FROM currencies WHERE code = ?`, strings.ToUpper(code))
	return scanCurrency(row)
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, user_id, currency_id, amount, description, category, type, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID.String(), tx.UserID.String(), tx.CurrencyID, tx.Amount.String(),
		tx.Description, tx.Category, string(tx.Type), tx.OccurredAt.UnixNano())
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

const txSelect = `
	SELECT t.id, t.user_id, t.currency_id, c.code, t.amount, t.description,
	       COALESCE(t.category, ''), t.type, t.occurred_at
	FROM transactions t
	JOIN currencies c ON c.id = t.currency_id`

func (s *SQLiteStore) ListRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		txSelect+` WHERE t.user_id = ? AND t.is_deleted = 0
		 ORDER BY t.occurred_at DESC LIMIT ?`,
		userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *SQLiteStore) FindTransactionsByIDPrefix(ctx context.Context, userID uuid.UUID, prefix string) ([]core.Transaction, error) {
	// substr keeps the match case-sensitive; LIKE would not be, and would
	// treat % and _ in user input as wildcards.
	rows, err := s.db.QueryContext(ctx,
		txSelect+` WHERE t.user_id = ? AND t.is_deleted = 0
		 AND substr(t.id, 1, ?) = ? ORDER BY t.id`,
		userID.String(), len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("find transactions by prefix: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (s *SQLiteStore) SoftDeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions SET is_deleted = 1 WHERE id = ? AND is_deleted = 0`,
		id.String())
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) SumAmountByType(ctx context.Context, userID uuid.UUID, txType core.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	// Amounts are stored as decimal text, so the sum happens here rather
	// than in SQL to avoid float arithmetic.
	query := `SELECT amount FROM transactions
	          WHERE user_id = ? AND type = ? AND is_deleted = 0`
	args := []any{userID.String(), string(txType)}
	if !start.IsZero() {
		query += ` AND occurred_at >= ?`
		args = append(args, start.UnixNano())
	}
	if !end.IsZero() {
		query += ` AND occurred_at < ?`
		args = append(args, end.UnixNano())
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	defer rows.Close()

	sum := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("scan amount: %w", err)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
		}
		sum = sum.Add(d)
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("iterate amounts: %w", err)
	}
	return sum, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*core.User, error) {
	var (
		u     core.User
		rawID string
	)
	err := row.Scan(&rawID, &u.Username, &u.CurrencyID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID, err = uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	return &u, nil
}

func scanCurrency(row rowScanner) (*core.Currency, error) {
	var c core.Currency
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Symbol, &c.NumericCode, &c.MinorUnit)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan currency: %w", err)
	}
	return &c, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			tx            core.Transaction
			rawID, rawUID string
			rawAmount     string
			rawType       string
			occurredNanos int64
		)
		err := rows.Scan(&rawID, &rawUID, &tx.CurrencyID, &tx.CurrencyCode,
			&rawAmount, &tx.Description, &tx.Category, &rawType, &occurredNanos)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if tx.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("parse transaction id: %w", err)
		}
		if tx.UserID, err = uuid.Parse(rawUID); err != nil {
			return nil, fmt.Errorf("parse transaction user id: %w", err)
		}
		if tx.Amount, err = decimal.NewFromString(rawAmount); err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", rawAmount, err)
		}
		tx.Type = core.TransactionType(rawType)
		tx.OccurredAt = time.Unix(0, occurredNanos)
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
