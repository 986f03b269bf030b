package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recordColumns = `id, game_id, title, genre, created_at, recommended_times`

// orderColumns whitelists ORDER BY targets; SortField values never reach
// SQL directly.
var orderColumns = map[SortField]string{
	SortTitle:            "title",
	SortGameID:           "game_id",
	SortCreatedAt:        "created_at",
	SortRecommendedTimes: "recommended_times",
}

// PostgresStore keeps history in the game_recommendations table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an open pool. The caller owns the pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("pgx pool cannot be nil")
	}
	return &PostgresStore{pool: pool}
}

// Connect opens a pool for databaseURL and verifies it.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// FindByGameID implements Store.
func (s *PostgresStore) FindByGameID(ctx context.Context, gameID int) (*Record, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM game_recommendations WHERE game_id = $1`, gameID)

	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select game %d: %w", gameID, err)
	}
	return rec, nil
}

// Insert implements Store.
func (s *PostgresStore) Insert(ctx context.Context, rec *Record) error {
	times := rec.RecommendedTimes
	if times < 1 {
		times = 1
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO game_recommendations (game_id, title, genre, recommended_times)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, recommended_times`,
		rec.GameID, rec.Title, rec.Genre, times,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.RecommendedTimes)
	if err != nil {
		return fmt.Errorf("insert game %d: %w", rec.GameID, err)
	}
	return nil
}

// Update implements Store.
func (s *PostgresStore) Update(ctx context.Context, rec *Record) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE game_recommendations
		SET title = $2, genre = $3, recommended_times = $4
		WHERE game_id = $1`,
		rec.GameID, rec.Title, rec.Genre, rec.RecommendedTimes)
	if err != nil {
		return fmt.Errorf("update game %d: %w", rec.GameID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert implements AtomicUpserter. The conflict clause increments the
// counter in the same statement, so concurrent picks never lose updates.
func (s *PostgresStore) Upsert(ctx context.Context, sel Selection) (*Record, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO game_recommendations (game_id, title, genre, recommended_times)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (game_id) DO UPDATE
		SET recommended_times = game_recommendations.recommended_times + 1
		RETURNING `+recordColumns,
		sel.GameID, sel.Title, sel.Genre)

	rec, err := scanRecord(row)
	if err != nil {
		return nil, fmt.Errorf("upsert game %d: %w", sel.GameID, err)
	}
	return rec, nil
}

// ListPaged implements Store.
func (s *PostgresStore) ListPaged(ctx context.Context, q PageQuery) ([]Record, int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM game_recommendations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count records: %w", err)
	}

	if q.PageSize < 1 || int64(q.Offset()) >= total {
		return []Record{}, total, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+recordColumns+` FROM game_recommendations `+orderBy(q)+` LIMIT $1 OFFSET $2`,
		q.PageSize, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, q.PageSize)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate records: %w", err)
	}

	return records, total, nil
}

func orderBy(q PageQuery) string {
	column, ok := orderColumns[q.SortBy]
	if !ok {
		return "ORDER BY title ASC, game_id ASC"
	}

	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}
	if q.SortBy == SortGameID {
		return "ORDER BY game_id " + dir
	}
	return "ORDER BY " + column + " " + dir + ", game_id ASC"
}

func scanRecord(row pgx.Row) (*Record, error) {
	var (
		rec          Record
		title, genre *string
	)
	if err := row.Scan(&rec.ID, &rec.GameID, &title, &genre, &rec.CreatedAt, &rec.RecommendedTimes); err != nil {
		return nil, err
	}
	if title != nil {
		rec.Title = *title
	}
	if genre != nil {
		rec.Genre = *genre
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}
