package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gastosbot/receipts-engine/constants"
)

const expensesDDL = `
CREATE TABLE IF NOT EXISTS expenses (
    id            BIGSERIAL PRIMARY KEY,
    expense_date  DATE        NOT NULL,
    amount        NUMERIC(12,2) NOT NULL,
    category      TEXT        NOT NULL,
    telegram_user TEXT        NOT NULL DEFAULT '',
    processed_at  TIMESTAMPTZ NOT NULL,
    receipt_path  TEXT        NOT NULL DEFAULT '',
    title         TEXT        NOT NULL DEFAULT ''
)`

// PostgresStore mirrors expenses into Postgres through a pgx pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects, applies the schema, and returns the store.
func NewPostgresStore(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 5
	cfg.ConnConfig.ConnectTimeout = 3 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, expensesDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure expenses table: %w", err)
	}
	logger.Info("storage.postgres.ready")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) SaveExpense(ctx context.Context, e Expense) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO expenses (expense_date, amount, category, telegram_user, processed_at, receipt_path, title)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.Date, e.Amount, string(e.Category), e.TelegramUser, e.ProcessedAt, e.ReceiptPath, e.Title,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT expense_date::text, amount, category, telegram_user, processed_at, receipt_path, title
		 FROM expenses ORDER BY processed_at`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		var category string
		if err := rows.Scan(&e.Date, &e.Amount, &category, &e.TelegramUser, &e.ProcessedAt, &e.ReceiptPath, &e.Title); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Category, _ = constants.Coerce(category)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
