package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps score records in process. It mirrors the DynamoDB table key:
// a Put whose (name, score) pair already exists replaces that record.
// Used for local runs without AWS and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]ScoreRecord // game -> records sorted by compareScore
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]ScoreRecord)}
}

// ListTop returns up to limit records of game in ascending score order.
func (m *MemoryStore) ListTop(_ context.Context, game string, limit int) ([]ScoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs := m.records[game]
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return slices.Clone(recs), nil
}

// Put inserts rec, replacing an existing record with the same name and score.
func (m *MemoryStore) Put(_ context.Context, rec ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := m.records[rec.Game]
	i, found := slices.BinarySearchFunc(recs, rec, func(e, t ScoreRecord) int {
		return compareScore(&e, &t)
	})
	if found {
		recs[i] = rec
		return nil
	}
	m.records[rec.Game] = slices.Insert(recs, i, rec)
	return nil
}

// Len returns the number of records held for game.
func (m *MemoryStore) Len(game string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records[game])
}
