package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore keeps history in process memory. It is used by tests and
// single-instance deployments without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int]Record
	nextID  int64
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[int]Record),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// FindByGameID implements Store.
func (s *MemoryStore) FindByGameID(_ context.Context, gameID int) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Insert implements Store.
func (s *MemoryStore) Insert(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.GameID]; exists {
		return fmt.Errorf("game %d already recorded", rec.GameID)
	}

	s.nextID++
	rec.ID = s.nextID
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now()
	}
	if rec.RecommendedTimes < 1 {
		rec.RecommendedTimes = 1
	}
	s.records[rec.GameID] = *rec
	return nil
}

// Update implements Store.
func (s *MemoryStore) Update(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[rec.GameID]
	if !ok {
		return ErrNotFound
	}
	existing.Title = rec.Title
	existing.Genre = rec.Genre
	existing.RecommendedTimes = rec.RecommendedTimes
	s.records[rec.GameID] = existing
	return nil
}

// ListPaged implements Store.
func (s *MemoryStore) ListPaged(_ context.Context, q PageQuery) ([]Record, int64, error) {
	s.mu.RLock()
	all := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		all = append(all, rec)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		c := compareRecords(all[i], all[j], q.SortBy)
		if c == 0 {
			return all[i].GameID < all[j].GameID
		}
		if q.Descending {
			return c > 0
		}
		return c < 0
	})

	total := int64(len(all))
	start := q.Offset()
	if start >= len(all) || q.PageSize < 1 {
		return []Record{}, total, nil
	}
	end := start + q.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

// Len returns the number of records held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func compareRecords(a, b Record, field SortField) int {
	switch field {
	case SortGameID:
		return compareInts(a.GameID, b.GameID)
	case SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortRecommendedTimes:
		return compareInts(a.RecommendedTimes, b.RecommendedTimes)
	default:
		return strings.Compare(a.Title, b.Title)
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
