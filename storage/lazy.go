package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"leaderboard-server/config"
	"leaderboard-server/scoreerrors"
)

// Opener creates the backing ScoreStore.
type Opener func(ctx context.Context) (ScoreStore, error)

// LazyStore is the process-wide store handle. The backend is opened on first use and
// then shared by every later call; a failed open is retried on the next call.
type LazyStore struct {
	open Opener

	mu    sync.Mutex
	store ScoreStore
}

// NewLazyStore returns a LazyStore that calls open on first use.
func NewLazyStore(open Opener) *LazyStore {
	return &LazyStore{open: open}
}

func (l *LazyStore) get(ctx context.Context) (ScoreStore, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.store != nil {
		return l.store, nil
	}
	s, err := l.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scoreerrors.ErrStoreUnavailable, err)
	}
	l.store = s
	return s, nil
}

// ListTop opens the backend if needed and delegates to it.
func (l *LazyStore) ListTop(ctx context.Context, game string, limit int) ([]ScoreRecord, error) {
	s, err := l.get(ctx)
	if err != nil {
		return nil, err
	}
	return s.ListTop(ctx, game, limit)
}

// Put opens the backend if needed and delegates to it.
func (l *LazyStore) Put(ctx context.Context, rec ScoreRecord) error {
	s, err := l.get(ctx)
	if err != nil {
		return err
	}
	return s.Put(ctx, rec)
}

// Close releases the backend if it was opened and supports closing.
// Under Lambda it is never called; the handle lives as long as the process.
func (l *LazyStore) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.store.(interface{ Close() }); ok {
		c.Close()
	}
	l.store = nil
}

// Open returns an Opener for the backend named by cfg.Backend.
func Open(cfg *config.Config) Opener {
	return func(ctx context.Context) (ScoreStore, error) {
		switch cfg.Backend {
		case config.BackendDynamoDB:
			client, err := NewDynamoClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
			if err != nil {
				return nil, err
			}
			slog.Info("using DynamoDB store", "tag", "storage", "table", TableName, "index", ScoreIndexName)
			return NewDynamoStore(client), nil
		case config.BackendPostgres:
			pg, err := NewPostgresStore(ctx, cfg.DatabaseURL)
			if err != nil {
				return nil, err
			}
			return pg, nil
		case config.BackendMemory:
			slog.Warn("using in-memory store; scores are lost on restart", "tag", "storage")
			return NewMemoryStore(), nil
		default:
			return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
		}
	}
}
