package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gastosbot/receipts-engine/constants"
)

const sqliteDDL = `
CREATE TABLE IF NOT EXISTS expenses (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    expense_date  TEXT NOT NULL,
    amount        REAL NOT NULL,
    category      TEXT NOT NULL,
    telegram_user TEXT NOT NULL DEFAULT '',
    processed_at  TEXT NOT NULL,
    receipt_path  TEXT NOT NULL DEFAULT '',
    title         TEXT NOT NULL DEFAULT ''
)`

// SQLiteStore is the no-server relational backend, for single-host setups
// where Postgres is overkill but CSV greps are not enough.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewSQLiteStore(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure expenses table: %w", err)
	}
	logger.Info("storage.sqlite.ready", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) SaveExpense(ctx context.Context, e Expense) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (expense_date, amount, category, telegram_user, processed_at, receipt_path, title)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Date, e.Amount, string(e.Category), e.TelegramUser, e.ProcessedAt.Format(time.RFC3339), e.ReceiptPath, e.Title,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT expense_date, amount, category, telegram_user, processed_at, receipt_path, title
		 FROM expenses ORDER BY processed_at`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		var category, processedAt string
		if err := rows.Scan(&e.Date, &e.Amount, &category, &e.TelegramUser, &processedAt, &e.ReceiptPath, &e.Title); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Category, _ = constants.Coerce(category)
		e.ProcessedAt, _ = time.Parse(time.RFC3339, processedAt)
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// OpenRelational picks the relational backend by DSN scheme: postgres:// (or
// postgresql://) goes to pgx, sqlite:// or a bare path goes to the embedded
// driver. An empty DSN returns nil with no error; the mirror is optional.
func OpenRelational(ctx context.Context, dsn string, logger *slog.Logger) (ExpenseStore, error) {
	if dsn == "" {
		return nil, nil
	}
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(ctx, dsn, logger)
	case strings.HasPrefix(dsn, "sqlite://"):
		return NewSQLiteStore(ctx, strings.TrimPrefix(dsn, "sqlite://"), logger)
	default:
		return NewSQLiteStore(ctx, dsn, logger)
	}
}
