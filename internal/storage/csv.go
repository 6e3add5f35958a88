package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gastosbot/receipts-engine/constants"
)

// csvHeaders is the canonical column order; existing expense files depend on
// it, so it never changes.
var csvHeaders = []string{"date", "amount", "category", "telegram_user", "processed_at", "receipt_path", "title"}

// CSVStore appends expenses to a headed CSV file, creating it on first use.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) (*CSVStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("csv dir: %w", err)
		}
	}
	s := &CSVStore{path: path}
	if err := s.ensureFile(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *CSVStore) ensureFile() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer func() { _ = f.Close() }()
	w := csv.NewWriter(f)
	if err := w.Write(csvHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) SaveExpense(_ context.Context, e Expense) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	record := []string{
		e.Date,
		strconv.FormatFloat(e.Amount, 'f', 2, 64),
		string(e.Category),
		e.TelegramUser,
		e.ProcessedAt.Format(time.RFC3339),
		e.ReceiptPath,
		e.Title,
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) ListExpenses(_ context.Context) ([]Expense, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var expenses []Expense
	for i, row := range rows {
		if i == 0 || len(row) < len(csvHeaders) {
			continue
		}
		amount, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			continue
		}
		processedAt, _ := time.Parse(time.RFC3339, row[4])
		category, _ := constants.Coerce(row[2])
		expenses = append(expenses, Expense{
			Date:         row[0],
			Amount:       amount,
			Category:     category,
			TelegramUser: row[3],
			ProcessedAt:  processedAt,
			ReceiptPath:  row[5],
			Title:        row[6],
		})
	}
	return expenses, nil
}
