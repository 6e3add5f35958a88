package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gastosbot/receipts-engine/constants"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleExpense() Expense {
	return Expense{
		Date:         "2026-01-09",
		Amount:       37.79,
		Category:     constants.Comida,
		TelegramUser: "Exe",
		ProcessedAt:  time.Date(2026, 1, 9, 18, 30, 0, 0, time.UTC),
		ReceiptPath:  "receipts/1757000000_abc.jpg",
		Title:        "ALDI",
	}
}

func TestCSVStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.csv")
	s, err := NewCSVStore(path)
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}

	ctx := context.Background()
	first := sampleExpense()
	second := sampleExpense()
	second.Amount = 5.5
	second.Category = constants.Transporte
	second.Title = "Taxi, aeropuerto"

	if err := s.SaveExpense(ctx, first); err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}
	if err := s.SaveExpense(ctx, second); err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}

	got, err := s.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != first {
		t.Errorf("first = %+v, want %+v", got[0], first)
	}
	if got[1].Title != "Taxi, aeropuerto" {
		t.Errorf("comma in title not preserved: %q", got[1].Title)
	}
	if got[1].Amount != 5.5 {
		t.Errorf("amount = %v", got[1].Amount)
	}
}

func TestCSVStoreHeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.csv")
	if _, err := NewCSVStore(path); err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}

	// reopening an existing file must not add a second header
	s, err := NewCSVStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := s.SaveExpense(context.Background(), sampleExpense()); err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if n := strings.Count(string(data), "date,amount,category"); n != 1 {
		t.Errorf("header occurs %d times", n)
	}
}

func TestCSVStoreSkipsBadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.csv")
	s, err := NewCSVStore(path)
	if err != nil {
		t.Fatalf("NewCSVStore: %v", err)
	}
	if err := s.SaveExpense(context.Background(), sampleExpense()); err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := f.WriteString("2026-01-10,not-a-number,Comida,Exe,x,y,z\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = f.Close()

	got, err := s.ListExpenses(context.Background())
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("len = %d, want the bad row skipped", len(got))
	}
}

type failingStore struct{ err error }

func (s failingStore) SaveExpense(context.Context, Expense) error { return s.err }

func (s failingStore) ListExpenses(context.Context) ([]Expense, error) { return nil, s.err }

type memStore struct{ saved []Expense }

func (s *memStore) SaveExpense(_ context.Context, e Expense) error {
	s.saved = append(s.saved, e)
	return nil
}

func (s *memStore) ListExpenses(context.Context) ([]Expense, error) { return s.saved, nil }

func TestTeeSecondaryFailureIsNotFatal(t *testing.T) {
	primary := &memStore{}
	tee := NewTee(primary, failingStore{err: errors.New("connection refused")}, discardLogger())

	if err := tee.SaveExpense(context.Background(), sampleExpense()); err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}
	if len(primary.saved) != 1 {
		t.Errorf("primary saved %d rows", len(primary.saved))
	}
}

func TestTeePrimaryFailurePropagates(t *testing.T) {
	boom := errors.New("disk full")
	tee := NewTee(failingStore{err: boom}, &memStore{}, discardLogger())

	if err := tee.SaveExpense(context.Background(), sampleExpense()); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestTeeWithoutSecondary(t *testing.T) {
	primary := &memStore{}
	tee := NewTee(primary, nil, discardLogger())

	if err := tee.SaveExpense(context.Background(), sampleExpense()); err != nil {
		t.Fatalf("SaveExpense: %v", err)
	}
	got, err := tee.ListExpenses(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("ListExpenses = %v, %v", got, err)
	}
}
