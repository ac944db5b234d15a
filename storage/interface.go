package storage

import "context"

// ScoreStore abstracts persistence for leaderboard score submissions.
// Implementations can be swapped for testing (memory) or different backends (DynamoDB, Postgres).
type ScoreStore interface {
	// ListTop returns at most limit records for game, ordered by ascending score.
	ListTop(ctx context.Context, game string, limit int) ([]ScoreRecord, error)
	// Put writes rec unconditionally. No existence check or merge is done.
	Put(ctx context.Context, rec ScoreRecord) error
}

// Ensure every backend implements ScoreStore at compile time.
var (
	_ ScoreStore = (*DynamoStore)(nil)
	_ ScoreStore = (*PostgresStore)(nil)
	_ ScoreStore = (*MemoryStore)(nil)
	_ ScoreStore = (*LazyStore)(nil)
)
