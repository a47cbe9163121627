// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"os"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable whose JSON overrides the TOML settings.
const EnvConfigJSON = "PERMGATE_CONFIG_JSON"

// Cache drivers.
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

const defaultShutDownTime = 5

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c   Config
		err error
	)

	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	if env := os.Getenv(EnvConfigJSON); env != "" {
		c, err = decodeAndMergeConfig(c, env)
		if err != nil {
			return c, err
		}
	}

	if err = validate(&c); err != nil {
		return c, err
	}

	return c, nil
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint:wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	return string(out), nil
}

// validate the settings needed to start and apply defaults.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	switch c.Permissions.Mode {
	case "":
		c.Permissions.Mode = "actions"
	case "actions", "read-write":
	default:
		return errors.Wrapf(ErrUnknownPermissionMode, "%s: %q", invalidErrMessage, c.Permissions.Mode)
	}

	switch c.Cache.Driver {
	case "":
		c.Cache.Driver = CacheDriverMemory
	case CacheDriverMemory:
	case CacheDriverRedis:
		if c.Cache.RedisAddr == "" {
			return errors.Wrap(ErrEmptyRedisAddr, invalidErrMessage)
		}
	default:
		return errors.Wrapf(ErrUnknownCacheDriver, "%s: %q", invalidErrMessage, c.Cache.Driver)
	}

	if c.JWT.Secret == "" {
		return errors.Wrap(ErrEmptyJWTSecret, invalidErrMessage)
	}

	return nil
}
