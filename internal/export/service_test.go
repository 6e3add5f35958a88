package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gastosbot/receipts-engine/constants"
	"github.com/gastosbot/receipts-engine/internal/storage"
)

type memStore struct{ expenses []storage.Expense }

func (s *memStore) SaveExpense(_ context.Context, e storage.Expense) error {
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *memStore) ListExpenses(context.Context) ([]storage.Expense, error) {
	return s.expenses, nil
}

func testExpense(date string, amount float64) storage.Expense {
	return storage.Expense{
		Date:         date,
		Amount:       amount,
		Category:     constants.Comida,
		TelegramUser: "Exe",
		ProcessedAt:  time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		Title:        "ALDI",
	}
}

func TestExportExpensesXLSX(t *testing.T) {
	store := &memStore{expenses: []storage.Expense{
		testExpense("2026-01-05", 10.5),
		testExpense("2026-01-09", 37.79),
		testExpense("2026-02-01", 3),
	}}
	svc := NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	data, err := svc.ExportExpensesXLSX(context.Background(), "", "")
	if err != nil {
		t.Fatalf("ExportExpensesXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Gastos")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header plus 3", len(rows))
	}
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Gastos" {
		t.Errorf("sheets = %v, want only Gastos", sheets)
	}
	if rows[0][0] != "Date" || rows[0][6] != "Title" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[2][0] != "2026-01-09" {
		t.Errorf("second expense date = %q", rows[2][0])
	}
}

func TestExportExpensesXLSXDateWindow(t *testing.T) {
	store := &memStore{expenses: []storage.Expense{
		testExpense("2026-01-05", 10.5),
		testExpense("2026-01-09", 37.79),
		testExpense("2026-02-01", 3),
	}}
	svc := NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	data, err := svc.ExportExpensesXLSX(context.Background(), "2026-01-06", "2026-01-31")
	if err != nil {
		t.Fatalf("ExportExpensesXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Gastos")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header plus the single in-window expense", len(rows))
	}
	if rows[1][0] != "2026-01-09" {
		t.Errorf("row date = %q", rows[1][0])
	}
}
