package leaderboard

import (
	"context"
	"fmt"
	"slices"
)

// Store persists records and answers top-n queries.
type Store interface {
	// Add persists a validated record.
	Add(ctx context.Context, r Record) error

	// Top returns at most n records ordered by score descending, ties broken
	// by earliest submission.
	Top(ctx context.Context, n int) ([]Record, error)

	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// StoreConfig selects and configures a backend.
type StoreConfig struct {
	Backend    string
	SQLitePath string
	RedisAddr  string
	RedisKey   string
	MongoURI   string
	MongoDB    string
}

// Open connects to the backend named by cfg.Backend.
func Open(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisKey)
	case BackendMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrUnavailable, cfg.Backend)
}

func sortRecords(records []Record, n int) []Record {
	if n <= 0 || len(records) == 0 {
		return []Record{}
	}
	slices.SortStableFunc(records, less)
	if len(records) > n {
		records = records[:n]
	}
	return records
}
