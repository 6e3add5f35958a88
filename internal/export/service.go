// Package export produces XLSX workbooks from stored expenses.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gastosbot/receipts-engine/internal/storage"
)

// Service is a tiny façade over the expense store that renders XLSX bytes.
type Service struct {
	store  storage.ExpenseStore
	logger *slog.Logger
}

func NewService(store storage.ExpenseStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportExpensesXLSX returns a workbook with every stored expense inside the
// optional date window (inclusive, YYYY-MM-DD strings; empty means open).
func (s *Service) ExportExpensesXLSX(ctx context.Context, from, to string) ([]byte, error) {
	start := time.Now()

	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Gastos"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Amount", "Category", "User", "Processed At", "Receipt", "Title"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range expenses {
		if from != "" && e.Date < from {
			continue
		}
		if to != "" && e.Date > to {
			continue
		}
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, e.Date)
		write(2, e.Amount)
		write(3, string(e.Category))
		write(4, e.TelegramUser)
		write(5, e.ProcessedAt.Format("2006-01-02 15:04"))
		write(6, e.ReceiptPath)
		write(7, e.Title)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 10)
	_ = f.SetColWidth(sheet, "C", "D", 16)
	_ = f.SetColWidth(sheet, "E", "E", 18)
	_ = f.SetColWidth(sheet, "F", "F", 48)
	_ = f.SetColWidth(sheet, "G", "G", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
