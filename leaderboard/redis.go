package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey prefixes the keys RedisStore writes.
const DefaultRedisKey = "blockfall:scores"

// RedisStore ranks records in a sorted set keyed by score and keeps the
// record bodies in a hash keyed by id.
type RedisStore struct {
	rdb     *redis.Client
	rankKey string
	dataKey string
}

// OpenRedis connects to the server at addr and checks it answers.
func OpenRedis(ctx context.Context, addr, key string) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("%w: redis address is empty", ErrUnavailable)
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("%w: ping redis %s: %v", ErrUnavailable, addr, err)
	}
	return NewRedisStore(rdb, key), nil
}

// NewRedisStore wraps an existing client. An empty key uses DefaultRedisKey.
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, rankKey: key + ":rank", dataKey: key + ":data"}
}

func (s *RedisStore) Add(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	id := r.ID.String()
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.dataKey, id, data)
		pipe.ZAdd(ctx, s.rankKey, redis.Z{Score: float64(r.Score), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: add score: %v", ErrUnavailable, err)
	}
	return nil
}

// Top reads the n highest entries plus every entry tied with the lowest of
// them, so ties are ordered by time rather than by member name.
func (s *RedisStore) Top(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		return []Record{}, nil
	}

	top, err := s.rdb.ZRevRangeWithScores(ctx, s.rankKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: rank scores: %v", ErrUnavailable, err)
	}
	if len(top) == 0 {
		return []Record{}, nil
	}

	ids := make([]string, 0, len(top))
	seen := make(map[string]bool, len(top))
	for _, z := range top {
		id := z.Member.(string)
		ids = append(ids, id)
		seen[id] = true
	}

	floor := strconv.FormatFloat(top[len(top)-1].Score, 'f', -1, 64)
	tied, err := s.rdb.ZRangeByScore(ctx, s.rankKey, &redis.ZRangeBy{Min: floor, Max: floor}).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: rank ties: %v", ErrUnavailable, err)
	}
	for _, id := range tied {
		if !seen[id] {
			ids = append(ids, id)
		}
	}

	bodies, err := s.rdb.HMGet(ctx, s.dataKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: load scores: %v", ErrUnavailable, err)
	}

	records := make([]Record, 0, len(bodies))
	for i, body := range bodies {
		str, ok := body.(string)
		if !ok {
			return nil, fmt.Errorf("%w: missing body for %s", ErrUnavailable, ids[i])
		}
		var r Record
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, ids[i], err)
		}
		records = append(records, r)
	}
	return sortRecords(records, n), nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
