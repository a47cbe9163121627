package cache

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrNilBackend is the panic value of New when no backend is given.
var ErrNilBackend = errors.New("cache backend is nil")

// Backend is the storage port of the tagged cache.
type Backend interface {
	// Get returns the stored value and true, or false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key and links the key to every tag.
	Set(ctx context.Context, key string, value []byte, tags []string) error
	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error
	// InvalidateTags removes every key linked to one of the tags.
	InvalidateTags(ctx context.Context, tags ...string) error
	// Close releases the backend resources.
	Close() error
}

// Cache adds compute-on-miss semantics on top of a Backend.
type Cache struct {
	backend Backend
	group   singleflight.Group
}

// New creates a Cache over the given backend.
func New(backend Backend) *Cache {
	if backend == nil {
		panic(ErrNilBackend)
	}

	return &Cache{backend: backend}
}

// Get returns the raw value stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return c.backend.Get(ctx, key)
}

// Delete removes keys from the backend.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if err := c.backend.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}

	return nil
}

// InvalidateTags removes every entry stored with one of the tags.
func (c *Cache) InvalidateTags(ctx context.Context, tags ...string) error {
	if err := c.backend.InvalidateTags(ctx, tags...); err != nil {
		return fmt.Errorf("cache invalidate tags: %w", err)
	}

	return nil
}

// Close closes the backend.
func (c *Cache) Close() error {
	return c.backend.Close()
}

// Remember returns the value cached under key, computing and storing it on a miss.
//
// The returned value may be shared between concurrent callers and must be treated as
// read-only. Backend failures fall through to compute. The shared computation is not
// canceled with the context of the caller that started it.
func Remember[T any](
	ctx context.Context,
	c *Cache,
	key string,
	tags []string,
	compute func(context.Context) (T, error),
) (T, error) {
	var zero T

	if c == nil {
		return compute(ctx)
	}

	raw, found, err := c.backend.Get(ctx, key)

	switch {
	case err != nil:
		requests.WithLabelValues(resultError).Inc()
		log.Warn().Err(err).Str("key", key).Msg("cache read failed, computing value")
	case found:
		var value T
		if err = json.Unmarshal(raw, &value); err == nil {
			requests.WithLabelValues(resultHit).Inc()
			return value, nil
		}

		log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
	}

	requests.WithLabelValues(resultMiss).Inc()

	shared, err, _ := c.group.Do(key, func() (any, error) {
		detached := context.WithoutCancel(ctx)

		value, errCompute := compute(detached)
		if errCompute != nil {
			return nil, errCompute
		}

		encoded, errEncode := json.Marshal(value)
		if errEncode != nil {
			log.Warn().Err(errEncode).Str("key", key).Msg("value is not cacheable")
			return value, nil
		}

		if errSet := c.backend.Set(detached, key, encoded, tags); errSet != nil {
			log.Warn().Err(errSet).Str("key", key).Msg("cache write failed")
		}

		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := shared.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %q shared between different value types", key)
	}

	return value, nil
}
