package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNewPageQuery(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		wantField SortField
		wantDesc  bool
	}{
		{"defaults", "", "", SortTitle, false},
		{"title desc", "Title", "desc", SortTitle, true},
		{"id alias", "id", "DESC", SortGameID, true},
		{"gameid alias", "GameId", "asc", SortGameID, false},
		{"created_at", "created_at", "desc", SortCreatedAt, true},
		{"createdat", "CreatedAt", "", SortCreatedAt, false},
		{"recommended times", "RecommendedTimes", "desc", SortRecommendedTimes, true},
		{"unknown direction", "title", "sideways", SortTitle, false},
		{"unknown field ignores direction", "popularity", "desc", SortTitle, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewPageQuery(10, 1, tt.sortBy, tt.sortOrder)
			if q.SortBy != tt.wantField || q.Descending != tt.wantDesc {
				t.Errorf("NewPageQuery(%q, %q) = %s desc=%v, want %s desc=%v",
					tt.sortBy, tt.sortOrder, q.SortBy, q.Descending, tt.wantField, tt.wantDesc)
			}
		})
	}
}

func TestPageQuery_Offset(t *testing.T) {
	tests := []struct {
		size, number, want int
	}{
		{10, 1, 0},
		{10, 3, 20},
		{25, 2, 25},
		{10, 0, 0},
		{0, 5, 0},
	}

	for _, tt := range tests {
		q := PageQuery{PageSize: tt.size, PageNumber: tt.number}
		if got := q.Offset(); got != tt.want {
			t.Errorf("Offset(size=%d, page=%d) = %d, want %d", tt.size, tt.number, got, tt.want)
		}
	}
}

func TestRecordSelection_InsertThenIncrement(t *testing.T) {
	s := NewMemoryStore()
	locks := NewKeyedMutex()
	ctx := context.Background()
	sel := Selection{GameID: 540, Title: "Overwatch 2", Genre: "Shooter"}

	rec, err := RecordSelection(ctx, s, locks, sel)
	if err != nil {
		t.Fatalf("RecordSelection() error = %v", err)
	}
	if rec.RecommendedTimes != 1 || rec.ID == 0 || rec.CreatedAt.IsZero() {
		t.Errorf("first selection = %+v", rec)
	}

	rec, err = RecordSelection(ctx, s, locks, sel)
	if err != nil {
		t.Fatalf("RecordSelection() error = %v", err)
	}
	if rec.RecommendedTimes != 2 {
		t.Errorf("RecommendedTimes = %d, want 2", rec.RecommendedTimes)
	}
	if s.Len() != 1 {
		t.Errorf("records = %d, want 1", s.Len())
	}
	if locks.Len() != 0 {
		t.Errorf("locks held after return = %d", locks.Len())
	}
}

func TestRecordSelection_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	locks := NewKeyedMutex()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := RecordSelection(ctx, s, locks, Selection{GameID: 7, Title: "Dota 2"}); err != nil {
				t.Errorf("RecordSelection() error = %v", err)
			}
		}()
	}
	wg.Wait()

	rec, err := s.FindByGameID(ctx, 7)
	if err != nil {
		t.Fatalf("FindByGameID() error = %v", err)
	}
	if rec.RecommendedTimes != workers {
		t.Errorf("RecommendedTimes = %d, want %d", rec.RecommendedTimes, workers)
	}
}

// upsertStore records which write path RecordSelection took.
type upsertStore struct {
	*MemoryStore
	upserts int
	err     error
}

func (u *upsertStore) Upsert(ctx context.Context, sel Selection) (*Record, error) {
	u.upserts++
	if u.err != nil {
		return nil, u.err
	}
	return &Record{GameID: sel.GameID, RecommendedTimes: 1}, nil
}

func TestRecordSelection_PrefersAtomicUpsert(t *testing.T) {
	s := &upsertStore{MemoryStore: NewMemoryStore()}

	if _, err := RecordSelection(context.Background(), s, nil, Selection{GameID: 1}); err != nil {
		t.Fatalf("RecordSelection() error = %v", err)
	}
	if s.upserts != 1 {
		t.Errorf("upserts = %d, want 1", s.upserts)
	}
	if s.Len() != 0 {
		t.Error("find/insert path used despite AtomicUpserter")
	}
}

func TestRecordSelection_PropagatesErrors(t *testing.T) {
	boom := errors.New("disk full")
	s := &upsertStore{MemoryStore: NewMemoryStore(), err: boom}

	_, err := RecordSelection(context.Background(), s, nil, Selection{GameID: 1})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}

func TestMemoryStore_FindByGameID_NotFound(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.FindByGameID(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if err := s.Update(context.Background(), &Record{GameID: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore_InsertDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Insert(ctx, &Record{GameID: 1}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := s.Insert(ctx, &Record{GameID: 1}); err == nil {
		t.Error("duplicate Insert() should fail")
	}
}

func seedMemoryStore(t *testing.T, n int) *MemoryStore {
	t.Helper()

	s := NewMemoryStore()
	base := time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		rec := &Record{
			GameID:           i,
			Title:            fmt.Sprintf("Game %02d", i),
			Genre:            "Shooter",
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
			RecommendedTimes: 1 + i%3,
		}
		if err := s.Insert(context.Background(), rec); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
	return s
}

func TestMemoryStore_ListPaged(t *testing.T) {
	s := seedMemoryStore(t, 25)
	ctx := context.Background()

	tests := []struct {
		page      int
		wantLen   int
		wantFirst int
	}{
		{1, 10, 1},
		{2, 10, 11},
		{3, 5, 21},
		{4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			records, total, err := s.ListPaged(ctx, NewPageQuery(10, tt.page, "", ""))
			if err != nil {
				t.Fatalf("ListPaged() error = %v", err)
			}
			if total != 25 {
				t.Errorf("total = %d, want 25", total)
			}
			if len(records) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(records), tt.wantLen)
			}
			if tt.wantLen > 0 && records[0].GameID != tt.wantFirst {
				t.Errorf("first game = %d, want %d", records[0].GameID, tt.wantFirst)
			}
		})
	}
}

func TestMemoryStore_ListPaged_Sorting(t *testing.T) {
	s := seedMemoryStore(t, 6)
	ctx := context.Background()

	ids := func(records []Record) []int {
		out := make([]int, len(records))
		for i, r := range records {
			out[i] = r.GameID
		}
		return out
	}

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      []int
	}{
		{"title asc", "title", "asc", []int{1, 2, 3, 4, 5, 6}},
		{"title desc", "title", "desc", []int{6, 5, 4, 3, 2, 1}},
		{"created desc", "createdAt", "desc", []int{6, 5, 4, 3, 2, 1}},
		{"unknown field is title asc", "nonsense", "desc", []int{1, 2, 3, 4, 5, 6}},
		// RecommendedTimes is 1+i%3: 2,3,1,2,3,1. Ties break on game id.
		{"recommended asc", "recommended_times", "asc", []int{3, 6, 1, 4, 2, 5}},
		{"recommended desc", "recommended_times", "desc", []int{2, 5, 1, 4, 3, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := s.ListPaged(ctx, NewPageQuery(10, 1, tt.sortBy, tt.sortOrder))
			if err != nil {
				t.Fatalf("ListPaged() error = %v", err)
			}
			got := ids(records)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	k := NewKeyedMutex()

	unlock := k.Lock(1)
	acquired := make(chan struct{})
	go func() {
		release := k.Lock(1)
		close(acquired)
		release()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock(1) acquired while first held")
	case <-time.After(50 * time.Millisecond):
	}

	// A different key is independent.
	other := k.Lock(2)
	other()

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock(1) never acquired")
	}
}
