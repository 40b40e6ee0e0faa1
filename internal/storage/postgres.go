package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"dime/internal/core"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if err := RunPostgresMigrations(dsn); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *core.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, username, currency_id) VALUES ($1, $2, $3)`,
		user.ID.String(), user.Username, nullableID(user.CurrencyID))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id uuid.UUID) (*core.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id::text, COALESCE(username, ''), COALESCE(currency_id, 0)
		 FROM users WHERE id = $1 AND is_deleted = FALSE`, id.String())
	return scanPgUser(row)
}

func (s *PostgresStore) GetUserByExternalID(ctx context.Context, externalID string) (*core.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT u.id::text, COALESCE(u.username, ''), COALESCE(u.currency_id, 0)
		 FROM users u
		 JOIN external_accounts ea ON ea.user_id = u.id
		 WHERE ea.external_id = $1 AND ea.is_deleted = FALSE AND u.is_deleted = FALSE`,
		externalID)
	return scanPgUser(row)
}

func (s *PostgresStore) CreateExternalAccount(ctx context.Context, account *core.ExternalAccount) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO external_accounts (id, external_id, user_id, username, first_name, last_name)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		account.ID.String(), account.ExternalID, account.UserID.String(),
		account.Username, account.FirstName, account.LastName)
	if err != nil {
		return fmt.Errorf("insert external account: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetUserCurrency(ctx context.Context, userID uuid.UUID, currencyID int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET currency_id = $1, updated_at = now()
		 WHERE id = $2 AND is_deleted = FALSE`,
		currencyID, userID.String())
	if err != nil {
		return fmt.Errorf("update user currency: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetCurrency(ctx context.Context, id int64) (*core.Currency, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, code, symbol, numeric_code, minor_unit
		 FROM currencies WHERE id = $1`, id)
	return scanPgCurrency(row)
}

func (s *PostgresStore) GetCurrencyByCode(ctx context.Context, code string) (*core.Currency, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, code, symbol, numeric_code, minor_unit
		 FROM currencies WHERE code = $1`, strings.ToUpper(code))
	return scanPgCurrency(row)
}

func (s *PostgresStore) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO transactions (id, user_id, currency_id, amount, description, category, type, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID.String(), tx.UserID.String(), tx.CurrencyID, tx.Amount.String(),
		tx.Description, tx.Category, string(tx.Type), tx.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

const pgTxSelect = `
	SELECT t.id::text, t.user_id::text, t.currency_id, c.code, t.amount::text,
	       t.description, COALESCE(t.category, ''), t.type, t.occurred_at
	FROM transactions t
	JOIN currencies c ON c.id = t.currency_id`

func (s *PostgresStore) ListRecentTransactions(ctx context.Context, userID uuid.UUID, limit int) ([]core.Transaction, error) {
	rows, err := s.pool.Query(ctx,
		pgTxSelect+` WHERE t.user_id = $1 AND t.is_deleted = FALSE
		 ORDER BY t.occurred_at DESC LIMIT $2`,
		userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()
	return scanPgTransactions(rows)
}

func (s *PostgresStore) FindTransactionsByIDPrefix(ctx context.Context, userID uuid.UUID, prefix string) ([]core.Transaction, error) {
	// left() keeps the comparison literal; LIKE would treat % and _ in user
	// input as wildcards.
	rows, err := s.pool.Query(ctx,
		pgTxSelect+` WHERE t.user_id = $1 AND t.is_deleted = FALSE
		 AND left(t.id::text, length($2)) = $2 ORDER BY t.id`,
		userID.String(), prefix)
	if err != nil {
		return nil, fmt.Errorf("find transactions by prefix: %w", err)
	}
	defer rows.Close()
	return scanPgTransactions(rows)
}

func (s *PostgresStore) SoftDeleteTransaction(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE transactions SET is_deleted = TRUE WHERE id = $1 AND is_deleted = FALSE`,
		id.String())
	if err != nil {
		return fmt.Errorf("soft delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) SumAmountByType(ctx context.Context, userID uuid.UUID, txType core.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0)::text FROM transactions
	          WHERE user_id = $1 AND type = $2 AND is_deleted = FALSE`
	args := []any{userID.String(), string(txType)}
	if !start.IsZero() {
		args = append(args, start)
		query += fmt.Sprintf(` AND occurred_at >= $%d`, len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		query += fmt.Sprintf(` AND occurred_at < $%d`, len(args))
	}

	var raw string
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	sum, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse sum %q: %w", raw, err)
	}
	return sum, nil
}

func scanPgUser(row pgx.Row) (*core.User, error) {
	var (
		u     core.User
		rawID string
	)
	err := row.Scan(&rawID, &u.Username, &u.CurrencyID)
	if errors.Is(err, pgx.ErrNoRows) {
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

func scanPgCurrency(row pgx.Row) (*core.Currency, error) {
	var c core.Currency
	err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Symbol, &c.NumericCode, &c.MinorUnit)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan currency: %w", err)
	}
	return &c, nil
}

func scanPgTransactions(rows pgx.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		var (
			tx            core.Transaction
			rawID, rawUID string
			rawAmount     string
			rawType       string
		)
		err := rows.Scan(&rawID, &rawUID, &tx.CurrencyID, &tx.CurrencyCode,
			&rawAmount, &tx.Description, &tx.Category, &rawType, &tx.OccurredAt)
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
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
