package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownPermissionMode error if config permissions.mode is neither actions nor read-write.
	ErrUnknownPermissionMode = errors.New("toml config permissions.mode must be actions or read-write")

	// ErrUnknownCacheDriver error if config cache.driver is neither memory nor redis.
	ErrUnknownCacheDriver = errors.New("toml config cache.driver must be memory or redis")

	// ErrEmptyRedisAddr error if the redis cache driver has no address.
	ErrEmptyRedisAddr = errors.New("toml config cache.redisaddr can not be empty with the redis driver")

	// ErrEmptyJWTSecret error if config jwt.secret is empty.
	ErrEmptyJWTSecret = errors.New("toml config jwt.secret can not be empty")
)
