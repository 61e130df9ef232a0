package leaderboard

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract checks the behavior every Store backend shares.
func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	empty, err := store.Top(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	add := func(name string, score int, at time.Duration) Record {
		r := Record{ID: uuid.New(), Nickname: name, Score: score, CreatedAt: t0.Add(at)}
		require.NoError(t, store.Add(ctx, r))
		return r
	}
	add("carol", 300, 3*time.Second)
	add("alice", 500, 0)
	add("dave", 300, time.Second)
	add("bob", 100, 2*time.Second)
	add("erin", 300, 2*time.Second)

	top, err := store.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "dave", "erin", "carol", "bob"}, nicknames(top))

	top, err = store.Top(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "dave"}, nicknames(top))

	top, err = store.Top(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, top)

	err = store.Add(ctx, Record{ID: uuid.New(), Nickname: "", Score: 1, CreatedAt: t0})
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func nicknames(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Nickname
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	testStoreContract(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer store.Close()
	testStoreContract(t, store)
}

func TestSQLiteStoreFile(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/nested/scores.db"

	store, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx, NewRecord("ada", 42)))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	top, err := reopened.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "ada", top[0].Nickname)
	assert.Equal(t, 42, top[0].Score)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	key := "blockfall-test:" + uuid.NewString()

	store, err := OpenRedis(ctx, addr, key)
	require.NoError(t, err)
	defer func() {
		store.rdb.Del(ctx, store.rankKey, store.dataKey)
		store.Close()
	}()
	testStoreContract(t, store)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	db := "blockfall_test_" + uuid.NewString()[:8]

	store, err := OpenMongo(ctx, uri, db)
	require.NoError(t, err)
	defer func() {
		_ = store.coll.Database().Drop(ctx)
		store.Close()
	}()
	testStoreContract(t, store)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, StoreConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(ctx, StoreConfig{Backend: BackendSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	store.Close()

	_, err = Open(ctx, StoreConfig{Backend: "etcd"})
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = Open(ctx, StoreConfig{Backend: BackendRedis})
	assert.ErrorIs(t, err, ErrUnavailable)
}
