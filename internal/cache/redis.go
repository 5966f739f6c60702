package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"go-kenyajobs/internal/source"
)

// redisTTL keeps yesterday's entries around long enough to be invalidated
// by the day check instead of disappearing mid-run at midnight.
const redisTTL = 48 * time.Hour

// RedisCache is a Store backed by Redis, for setups where several machines
// share one day's harvest. Keys are scoped per day so a new day naturally
// starts cold.
type RedisCache struct {
	client      *redis.Client
	fingerprint string
	day         string
}

// NewRedisCache connects to Redis at the given URL (redis://host:port).
func NewRedisCache(redisURL, fingerprint string, today time.Time) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("cache: invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis ping failed: %w", err)
	}

	return &RedisCache{
		client:      client,
		fingerprint: fingerprint,
		day:         today.Format("2006-01-02"),
	}, nil
}

func (rc *RedisCache) key(sourceKey string) string {
	return fmt.Sprintf("kenyajobs:%s:%s", rc.day, sourceKey)
}

func (rc *RedisCache) Check(sourceKey string) Status {
	entry, found := rc.Get(sourceKey)
	return check(entry, found, rc.fingerprint, rc.day)
}

func (rc *RedisCache) Get(sourceKey string) (Entry, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := rc.client.Get(ctx, rc.key(sourceKey)).Bytes()
	if err != nil {
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// unreadable entry degrades to a miss
		log.Printf("⚠️ Corrupt redis cache entry for %s: %v", sourceKey, err)
		return Entry{}, false
	}
	return entry, true
}

func (rc *RedisCache) Put(sourceKey string, jobs []source.Posting) error {
	entry := Entry{
		Jobs:        jobs,
		Fingerprint: rc.fingerprint,
		Day:         rc.day,
		ComputedAt:  time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache: marshal entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.client.Set(ctx, rc.key(sourceKey), data, redisTTL).Err(); err != nil {
		return fmt.Errorf("cache: redis set %s: %w", sourceKey, err)
	}
	return nil
}

func (rc *RedisCache) Close() error {
	return rc.client.Close()
}
