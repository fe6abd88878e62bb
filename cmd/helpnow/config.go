package main

import (
	"encoding/base64"
	"fmt"
	"strings"

	"helpnow/pkg/types"

	"github.com/gorilla/securecookie"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	driverMongo    = "mongo"
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

// loadConfig reads the environment. Variables are looked up as PREFIX_NAME first and then
// as NAME.
func loadConfig(prefix string) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	c.DatabaseDriver = strings.ToLower(strings.TrimSpace(c.DatabaseDriver))
	switch c.DatabaseDriver {
	case driverMongo, driverPostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("set DATABASE_URL")
		}
	case driverMemory:
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 5000
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	return c, nil
}

// cookieKeys decodes the configured cookie keys. Missing keys are generated, which
// invalidates every session on restart.
func cookieKeys(c *types.Config, logger logrus.FieldLogger) (hashKey, blockKey []byte, err error) {
	hashKey, err = decodeKey("COOKIE_HASH_KEY", c.CookieHashKey)
	if err != nil {
		return nil, nil, err
	}
	if hashKey == nil {
		logger.Warn("COOKIE_HASH_KEY is not set; generating a key for this process")
		hashKey = securecookie.GenerateRandomKey(64)
	}

	blockKey, err = decodeKey("COOKIE_BLOCK_KEY", c.CookieBlockKey)
	if err != nil {
		return nil, nil, err
	}
	if blockKey == nil {
		logger.Warn("COOKIE_BLOCK_KEY is not set; generating a key for this process")
		blockKey = securecookie.GenerateRandomKey(32)
	}

	return hashKey, blockKey, nil
}

func decodeKey(name, value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}

	key, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	return key, nil
}

func newLogger(c *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("invalid LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
