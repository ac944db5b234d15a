package storage

import (
	"context"
	"errors"
	"testing"

	"leaderboard-server/config"
	"leaderboard-server/scoreerrors"
)

func TestLazyStore_OpensOnceOnFirstUse(t *testing.T) {
	calls := 0
	mem := NewMemoryStore()
	l := NewLazyStore(func(context.Context) (ScoreStore, error) {
		calls++
		return mem, nil
	})
	if calls != 0 {
		t.Fatalf("opener should not run before first use, ran %d times", calls)
	}

	ctx := context.Background()
	rec, _ := NewScoreRecord("alice", "42", "clickgame")
	if err := l.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	top, err := l.ListTop(ctx, "clickgame", 10)
	if err != nil {
		t.Fatalf("ListTop: %v", err)
	}
	if len(top) != 1 {
		t.Errorf("expected 1 record, got %d", len(top))
	}
	if calls != 1 {
		t.Errorf("expected opener to run once, ran %d times", calls)
	}
}

func TestLazyStore_RetriesAfterFailedOpen(t *testing.T) {
	calls := 0
	l := NewLazyStore(func(context.Context) (ScoreStore, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("no credentials")
		}
		return NewMemoryStore(), nil
	})

	_, err := l.ListTop(context.Background(), "clickgame", 10)
	if !errors.Is(err, scoreerrors.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := l.ListTop(context.Background(), "clickgame", 10); err != nil {
		t.Fatalf("second ListTop should succeed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 open attempts, got %d", calls)
	}
}

func TestOpen_MemoryAndUnknownBackends(t *testing.T) {
	s, err := Open(&config.Config{Backend: config.BackendMemory})(context.Background())
	if err != nil {
		t.Fatalf("memory backend: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("expected *MemoryStore, got %T", s)
	}

	if _, err := Open(&config.Config{Backend: "cassandra"})(context.Background()); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := Open(&config.Config{Backend: config.BackendPostgres})(context.Background()); err == nil {
		t.Error("expected error for postgres backend without DATABASE_URL")
	}
}
