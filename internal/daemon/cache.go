package daemon

import (
	"context"

	"github.com/permgate/permgate/internal/cache"
	"github.com/permgate/permgate/internal/config"
)

// NewBackend creates the configured cache backend.
func NewBackend(ctx context.Context, cfg config.Cache) (cache.Backend, error) {
	if cfg.Driver == config.CacheDriverRedis {
		client, err := cache.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}

		return cache.NewRedis(client, cfg.Prefix, cfg.TTL), nil
	}

	return cache.NewMemory(cfg.Size, cfg.TTL), nil
}
