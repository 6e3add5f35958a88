// Package storage persists the expense records the bot derives from
// analysis results. The CSV file is the primary, always-available store; a
// relational backend (Postgres or SQLite, by DSN) mirrors the rows when
// configured and degrades to a warning when it is not reachable.
package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/gastosbot/receipts-engine/constants"
)

// Expense is one filed spending record. Date is YYYY-MM-DD and may carry the
// sentinel when no receipt date was determined.
type Expense struct {
	Date         string             `json:"date"`
	Amount       float64            `json:"amount"`
	Category     constants.Category `json:"category"`
	TelegramUser string             `json:"telegram_user"`
	ProcessedAt  time.Time          `json:"processed_at"`
	ReceiptPath  string             `json:"receipt_path"`
	Title        string             `json:"title"`
}

// ExpenseStore is the persistence contract the bot depends on.
type ExpenseStore interface {
	SaveExpense(ctx context.Context, e Expense) error
	ListExpenses(ctx context.Context) ([]Expense, error)
}

// Tee writes to the primary store and mirrors to an optional secondary.
// A secondary failure is logged, never propagated: losing the mirror must
// not lose the expense.
type Tee struct {
	Primary   ExpenseStore
	Secondary ExpenseStore // may be nil
	Logger    *slog.Logger
}

func NewTee(primary, secondary ExpenseStore, logger *slog.Logger) *Tee {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tee{Primary: primary, Secondary: secondary, Logger: logger}
}

func (t *Tee) SaveExpense(ctx context.Context, e Expense) error {
	if err := t.Primary.SaveExpense(ctx, e); err != nil {
		return err
	}
	if t.Secondary != nil {
		if err := t.Secondary.SaveExpense(ctx, e); err != nil {
			t.Logger.Warn("storage.tee.secondary_save_failed", "error", err)
		}
	}
	return nil
}

func (t *Tee) ListExpenses(ctx context.Context) ([]Expense, error) {
	return t.Primary.ListExpenses(ctx)
}
