package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// invalidateScript drops every tag set in KEYS together with the entries it links,
// atomically so no Set can link a key into a set being dropped.
var invalidateScript = redis.NewScript(`
for _, tag in ipairs(KEYS) do
	local members = redis.call('SMEMBERS', tag)
	for _, key in ipairs(members) do
		redis.call('DEL', key)
	end
	redis.call('DEL', tag)
end
return 0
`) //nolint:gochecknoglobals

// Redis is a Backend keeping entries in Redis.
// Every tag is a Redis set holding the keys stored with it.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Dial connects to the Redis server at addr and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: ping redis: %w", err)
	}

	return client, nil
}

// NewRedis creates a Redis backend. Keys are namespaced with prefix.
func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (r *Redis) key(key string) string {
	return r.prefix + key
}

func (r *Redis) tagKey(tag string) string {
	return r.prefix + "tag:" + tag
}

// Get implements Backend.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

// Set implements Backend.
func (r *Redis) Set(ctx context.Context, key string, value []byte, tags []string) error {
	k := r.key(key)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, k, value, r.ttl)

	for _, tag := range tags {
		tk := r.tagKey(tag)
		pipe.SAdd(ctx, tk, k)

		if r.ttl > 0 {
			pipe.Expire(ctx, tk, r.ttl)
		}
	}

	_, err := pipe.Exec(ctx)

	return err
}

// Delete implements Backend.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, r.key(key))
	}

	return r.client.Del(ctx, prefixed...).Err()
}

// InvalidateTags implements Backend.
func (r *Redis) InvalidateTags(ctx context.Context, tags ...string) error {
	if len(tags) == 0 {
		return nil
	}

	keys := make([]string, 0, len(tags))
	for _, tag := range tags {
		keys = append(keys, r.tagKey(tag))
	}

	return invalidateScript.Run(ctx, r.client, keys).Err()
}

// Close implements Backend.
func (r *Redis) Close() error {
	return r.client.Close()
}
