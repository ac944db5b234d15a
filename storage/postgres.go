package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS leaderboard (
	id           UUID PRIMARY KEY,
	name         TEXT NOT NULL,
	score        NUMERIC NOT NULL,
	game         TEXT NOT NULL,
	submitted_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS score_index ON leaderboard(game, score);
`

// PostgresStore persists score records in the leaderboard table. Every Put inserts a
// new row; unlike the DynamoDB table, rows are keyed by a generated id.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and ensures the leaderboard table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("postgres backend requires DATABASE_URL")
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("connected to Postgres", "tag", "storage")
	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// ListTop returns up to limit rows for game ordered by score ASC.
// Scores are read back as text so no float conversion happens in the driver.
func (s *PostgresStore) ListTop(ctx context.Context, game string, limit int) ([]ScoreRecord, error) {
	var lim *int
	if limit > 0 {
		lim = &limit
	}
	rows, err := s.pool.Query(ctx, `
		SELECT name, score::text, game
		FROM leaderboard
		WHERE game = $1
		ORDER BY score ASC, name ASC
		LIMIT $2`,
		game, lim)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ScoreRecord{}
	for rows.Next() {
		var name, score, g string
		if err := rows.Scan(&name, &score, &g); err != nil {
			return nil, err
		}
		rec, err := NewScoreRecord(name, score, g)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Put inserts rec as a new row.
func (s *PostgresStore) Put(ctx context.Context, rec ScoreRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO leaderboard (id, name, score, game)
		VALUES ($1, $2, $3::numeric, $4)`,
		uuid.New(), rec.Name, rec.ScoreText(), rec.Game)
	if err != nil {
		return fmt.Errorf("insert score for %q: %w", rec.Name, err)
	}
	return nil
}
