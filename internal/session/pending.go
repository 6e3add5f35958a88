// Package session holds per-chat pending receipts between the analysis step
// and the user's category/payer confirmation. Entries are keyed by chat id
// and expire explicitly instead of living in a process-global map forever.
package session

import (
	"sync"
	"time"

	"github.com/gastosbot/receipts-engine/internal/entity"
)

// Pending is an analysis result awaiting user confirmation.
type Pending struct {
	Result      *entity.AnalysisResult
	ReceiptPath string
	User        string
	createdAt   time.Time
}

// Store is a TTL-bounded keyed store for pending receipts.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]Pending
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Store{ttl: ttl, entries: make(map[int64]Pending)}
}

// Put stores a pending receipt for a chat, replacing any previous one.
func (s *Store) Put(chatID int64, p Pending) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.createdAt = time.Now()
	s.entries[chatID] = p
	s.expireLocked()
}

// Get returns the chat's pending receipt if it has not expired.
func (s *Store) Get(chatID int64) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	p, ok := s.entries[chatID]
	return p, ok
}

// Delete removes the chat's pending receipt, if any.
func (s *Store) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, chatID)
}

// Len reports the live entry count (expired entries excluded).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expireLocked()
	return len(s.entries)
}

func (s *Store) expireLocked() {
	cutoff := time.Now().Add(-s.ttl)
	for id, p := range s.entries {
		if p.createdAt.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
