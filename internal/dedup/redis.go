package dedup

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores the visited set as a hash of id -> unix seconds.
type RedisBackend struct {
	client redis.Cmdable
	key    string
}

func NewRedisBackend(client redis.Cmdable, key string) *RedisBackend {
	return &RedisBackend{client: client, key: key}
}

func (r *RedisBackend) LoadVisited(ctx context.Context) (map[string]time.Time, error) {
	raw, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]time.Time, len(raw))
	for id, v := range raw {
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[id] = time.Unix(sec, 0).UTC()
	}
	return out, nil
}

func (r *RedisBackend) SaveVisited(ctx context.Context, entries map[string]time.Time) error {
	if len(entries) == 0 {
		return nil
	}
	values := make(map[string]any, len(entries))
	for id, at := range entries {
		values[id] = at.Unix()
	}
	return r.client.HSet(ctx, r.key, values).Err()
}

func (r *RedisBackend) PruneVisited(ctx context.Context, before time.Time) (int64, error) {
	all, err := r.LoadVisited(ctx)
	if err != nil {
		return 0, err
	}
	var stale []string
	for id, at := range all {
		if at.Before(before) {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	return r.client.HDel(ctx, r.key, stale...).Result()
}
