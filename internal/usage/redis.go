package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdata/config"
	"github.com/redis/go-redis/v9"
)

const (
	queriesKey  = "usage:queries"
	fieldCalls  = "calls"
	fieldRows   = "rows"
	fieldErrors = "errors"
	fieldLastAt = "last_at"
)

// RedisStore keeps one hash of counters per query name plus a set indexing the names.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

func (s *RedisStore) Incr(ctx context.Context, query string, delta Counters, at time.Time) error {
	key := countersKey(query)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, queriesKey, query)
		pipe.HIncrBy(ctx, key, fieldCalls, delta.Calls)
		pipe.HIncrBy(ctx, key, fieldRows, delta.Rows)
		pipe.HIncrBy(ctx, key, fieldErrors, delta.Errors)
		pipe.HSet(ctx, key, fieldLastAt, at.UTC().Format(time.RFC3339))
		return nil
	})
	if err != nil {
		return fmt.Errorf("increment usage for %s: %w", query, err)
	}
	return nil
}

func (s *RedisStore) Queries(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, queriesKey).Result()
}

func (s *RedisStore) Counters(ctx context.Context, query string) (map[string]string, error) {
	return s.client.HGetAll(ctx, countersKey(query)).Result()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func countersKey(query string) string {
	return fmt.Sprintf("usage:query:%s", query)
}
