// Package store persists recommendation history: one record per game with
// a counter of how often it was picked.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned by FindByGameID when no record exists.
var ErrNotFound = errors.New("recommendation record not found")

// Record is one row of recommendation history.
type Record struct {
	ID               int64
	GameID           int
	Title            string
	Genre            string
	CreatedAt        time.Time
	RecommendedTimes int
}

// Selection is a game chosen by the engine, before it is persisted.
type Selection struct {
	GameID int
	Title  string
	Genre  string
}

// Store is the persistence contract for recommendation history.
type Store interface {
	// FindByGameID returns ErrNotFound when the game was never recommended.
	FindByGameID(ctx context.Context, gameID int) (*Record, error)

	// Insert stores a new record and fills in its ID and CreatedAt.
	Insert(ctx context.Context, rec *Record) error

	// Update overwrites the mutable fields of an existing record.
	Update(ctx context.Context, rec *Record) error

	// ListPaged returns one page of records and the total record count.
	ListPaged(ctx context.Context, q PageQuery) ([]Record, int64, error)
}

// AtomicUpserter is implemented by stores that can insert-or-increment in
// a single statement.
type AtomicUpserter interface {
	Upsert(ctx context.Context, sel Selection) (*Record, error)
}

// RecordSelection persists sel: a first pick creates a record with counter
// 1, later picks increment the counter. Stores without an atomic upsert are
// serialized per game id through locks.
func RecordSelection(ctx context.Context, s Store, locks *KeyedMutex, sel Selection) (*Record, error) {
	if up, ok := s.(AtomicUpserter); ok {
		rec, err := up.Upsert(ctx, sel)
		if err != nil {
			return nil, fmt.Errorf("upsert game %d: %w", sel.GameID, err)
		}
		return rec, nil
	}

	if locks != nil {
		unlock := locks.Lock(sel.GameID)
		defer unlock()
	}

	rec, err := s.FindByGameID(ctx, sel.GameID)
	switch {
	case errors.Is(err, ErrNotFound):
		rec = &Record{
			GameID:           sel.GameID,
			Title:            sel.Title,
			Genre:            sel.Genre,
			RecommendedTimes: 1,
		}
		if err := s.Insert(ctx, rec); err != nil {
			return nil, fmt.Errorf("insert game %d: %w", sel.GameID, err)
		}
		return rec, nil
	case err != nil:
		return nil, fmt.Errorf("find game %d: %w", sel.GameID, err)
	}

	rec.RecommendedTimes++
	if err := s.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("update game %d: %w", sel.GameID, err)
	}
	return rec, nil
}

// SortField is a column history can be ordered by.
type SortField string

const (
	SortTitle            SortField = "title"
	SortGameID           SortField = "game_id"
	SortCreatedAt        SortField = "created_at"
	SortRecommendedTimes SortField = "recommended_times"
)

var sortAliases = map[string]SortField{
	"title":             SortTitle,
	"id":                SortGameID,
	"gameid":            SortGameID,
	"game_id":           SortGameID,
	"createdat":         SortCreatedAt,
	"created_at":        SortCreatedAt,
	"recommendedtimes":  SortRecommendedTimes,
	"recommended_times": SortRecommendedTimes,
}

// PageQuery selects one page of history.
type PageQuery struct {
	PageSize   int
	PageNumber int
	SortBy     SortField
	Descending bool
}

// NewPageQuery resolves raw sort parameters. Field names match
// case-insensitively; an unknown field sorts by title ascending whatever
// the direction, and an unknown direction is ascending.
func NewPageQuery(pageSize, pageNumber int, sortBy, sortOrder string) PageQuery {
	q := PageQuery{PageSize: pageSize, PageNumber: pageNumber}

	field, ok := sortAliases[strings.ToLower(strings.TrimSpace(sortBy))]
	if !ok {
		q.SortBy = SortTitle
		return q
	}
	q.SortBy = field
	q.Descending = strings.EqualFold(strings.TrimSpace(sortOrder), "desc")
	return q
}

// Offset returns the number of records preceding the page.
func (q PageQuery) Offset() int {
	if q.PageNumber < 1 || q.PageSize < 1 {
		return 0
	}
	return (q.PageNumber - 1) * q.PageSize
}
