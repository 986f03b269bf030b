// Package recommend implements the recommendation engine: picking one
// compatible game at random for a filter, and paging through the history
// of past picks. Every stage reads through the cache gateway first.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/Sternrassler/game-picker/pkg/cache"
	"github.com/Sternrassler/game-picker/pkg/catalog"
	"github.com/Sternrassler/game-picker/pkg/compat"
	"github.com/Sternrassler/game-picker/pkg/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Catalog is the upstream game source consumed by the engine.
// *catalog.Client implements it.
type Catalog interface {
	GetFilteredGames(ctx context.Context, genres []string, platform string) ([]catalog.Game, error)
	GetGame(ctx context.Context, id int) (*catalog.Game, error)
}

// Config holds the engine collaborators.
type Config struct {
	// Catalog is required.
	Catalog Catalog

	// Store is required.
	Store store.Store

	// Cache is optional; nil disables caching.
	Cache *cache.Gateway

	// Locks serializes writes per game for stores without atomic upsert.
	// nil allocates a private KeyedMutex.
	Locks *store.KeyedMutex

	// Perm returns a random permutation of [0,n). nil uses math/rand/v2.
	Perm func(n int) []int
}

// Engine picks recommendations and serves history.
type Engine struct {
	catalog Catalog
	store   store.Store
	cache   *cache.Gateway
	locks   *store.KeyedMutex
	perm    func(n int) []int
	logger  zerolog.Logger
}

// New creates a new engine.
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	logger := log.With().Str("component", "recommend-engine").Logger()

	if cfg.Cache == nil {
		cfg.Cache = cache.NewGateway(nil, "", logger)
	}
	if cfg.Locks == nil {
		cfg.Locks = store.NewKeyedMutex()
	}
	if cfg.Perm == nil {
		cfg.Perm = rand.Perm
	}

	return &Engine{
		catalog: cfg.Catalog,
		store:   cfg.Store,
		cache:   cfg.Cache,
		locks:   cfg.Locks,
		perm:    cfg.Perm,
		logger:  logger,
	}, nil
}

// PickRecommendation returns a random game matching f whose minimum memory
// fits f.RAMGB. A cached recommendation for the same filter is returned
// as is, without consulting the catalog or the store.
//
// Errors match ErrNotFound when no game qualifies, ErrExternalFailure when
// the catalog fails and ErrInvalidInput for an empty genre list.
func (e *Engine) PickRecommendation(ctx context.Context, f Filter) (*Recommendation, error) {
	genres := cache.NormalizeGenres(f.Genres)
	if len(genres) == 0 {
		return nil, fmt.Errorf("%w: at least one genre is required", ErrInvalidInput)
	}
	if f.RAMGB != nil && *f.RAMGB < 1 {
		return nil, fmt.Errorf("%w: ram must be at least 1 GB", ErrInvalidInput)
	}

	key := cache.RecommendationKey(f.Genres, f.Platform, f.RAMGB)

	var cached Recommendation
	if e.cache.Get(ctx, key, &cached) {
		recommendationsTotal.WithLabelValues("cached").Inc()
		e.logger.Debug().Str("key", key).Msg("Recommendation served from cache")
		return &cached, nil
	}

	rec, err := e.pick(ctx, genres, f)
	if err != nil {
		recommendationsTotal.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}

	e.cache.Set(ctx, key, rec, cache.RecommendationTTL)
	recommendationsTotal.WithLabelValues("picked").Inc()
	return rec, nil
}

func (e *Engine) pick(ctx context.Context, genres []string, f Filter) (*Recommendation, error) {
	candidates, err := e.candidates(ctx, genres, f.Platform)
	if err != nil {
		return nil, err
	}

	scanned := 0
	defer func() { candidatesScanned.Observe(float64(scanned)) }()

	for _, idx := range e.perm(len(candidates)) {
		id := candidates[idx].ID
		scanned++

		game, err := e.gameDetails(ctx, id)
		if err != nil {
			return nil, err
		}
		if game == nil {
			e.logger.Debug().Int("game_id", id).Msg("Candidate has no detail, skipping")
			continue
		}
		if !compat.Fits(game.MinimumMemory(), f.RAMGB) {
			continue
		}

		if _, err := store.RecordSelection(ctx, e.store, e.locks, store.Selection{
			GameID: game.ID,
			Title:  game.Title,
			Genre:  game.Genre,
		}); err != nil {
			return nil, fmt.Errorf("record selection: %w", err)
		}
		e.cache.RemoveByPattern(ctx, cache.HistoryInvalidationPattern)

		e.logger.Info().
			Int("game_id", game.ID).
			Str("title", game.Title).
			Int("scanned", scanned).
			Msg("Game recommended")

		return &Recommendation{
			Title:           game.Title,
			LinkFromAPISite: game.FreeToGameProfileURL,
			Message:         fmt.Sprintf("Do you like %s? You definitely should play %s!", game.Genre, game.Title),
		}, nil
	}

	return nil, fmt.Errorf("%w: no games compatible with the specified RAM", ErrNotFound)
}

// candidates returns the non-empty filtered game list for genres and
// platform, from cache or the catalog.
func (e *Engine) candidates(ctx context.Context, genres []string, platform string) ([]catalog.Game, error) {
	key := cache.FilteredGamesKey(genres, platform)

	var games []catalog.Game
	if e.cache.Get(ctx, key, &games) && len(games) > 0 {
		return games, nil
	}

	games, err := e.catalog.GetFilteredGames(ctx, genres, strings.TrimSpace(platform))
	if errors.Is(err, catalog.ErrNoMatches) {
		return nil, fmt.Errorf("%w: no games found with the provided filters", ErrNotFound)
	}
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("list games: %w", ctx.Err())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: list games: %w", ErrExternalFailure, err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: no games found with the provided filters", ErrNotFound)
	}

	e.cache.Set(ctx, key, games, cache.FilteredGamesTTL)
	return games, nil
}

// gameDetails returns the detail of a game, or nil when the catalog does
// not know it. Absent games are not cached.
func (e *Engine) gameDetails(ctx context.Context, id int) (*catalog.Game, error) {
	key := cache.GameDetailsKey(id)

	var game catalog.Game
	if e.cache.Get(ctx, key, &game) {
		return &game, nil
	}

	detail, err := e.catalog.GetGame(ctx, id)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("game %d: %w", id, ctx.Err())
	}
	if err != nil {
		return nil, fmt.Errorf("%w: game %d: %w", ErrExternalFailure, id, err)
	}
	if detail == nil {
		return nil, nil
	}

	e.cache.Set(ctx, key, detail, cache.GameDetailsTTL)
	return detail, nil
}

// GetHistory returns one page of past recommendations. Pages are cached
// until the next pick invalidates them or HistoryTTL elapses.
func (e *Engine) GetHistory(ctx context.Context, q HistoryQuery) (*HistoryPage, error) {
	if q.PageSize < 1 {
		return nil, fmt.Errorf("%w: page size must be at least 1", ErrInvalidInput)
	}
	if q.PageNumber < 1 {
		return nil, fmt.Errorf("%w: page number must be at least 1", ErrInvalidInput)
	}

	key := cache.HistoryKey(q.PageSize, q.PageNumber, q.SortBy, q.SortOrder)

	var cached HistoryPage
	if e.cache.Get(ctx, key, &cached) {
		historyRequestsTotal.WithLabelValues("cached").Inc()
		return &cached, nil
	}

	start := time.Now()
	records, total, err := e.store.ListPaged(ctx, store.NewPageQuery(q.PageSize, q.PageNumber, q.SortBy, q.SortOrder))
	if err != nil {
		historyRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("list history: %w", err)
	}

	page := newHistoryPage(records, total, q.PageSize, q.PageNumber)

	e.logger.Debug().
		Str("key", key).
		Int64("total", total).
		Dur("duration", time.Since(start)).
		Msg("History page queried")

	e.cache.Set(ctx, key, page, cache.HistoryTTL)
	historyRequestsTotal.WithLabelValues("queried").Inc()
	return page, nil
}

func newHistoryPage(records []store.Record, total int64, pageSize, pageNumber int) *HistoryPage {
	items := make([]HistoryItem, len(records))
	for i, r := range records {
		items[i] = HistoryItem{
			Title:            r.Title,
			Genre:            r.Genre,
			RecommendedTimes: r.RecommendedTimes,
		}
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &HistoryPage{
		Items:           items,
		TotalCount:      total,
		PageNumber:      pageNumber,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1,
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrExternalFailure):
		return "external_failure"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
