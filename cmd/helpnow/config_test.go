package main

import (
	"encoding/base64"
	"io"
	"testing"

	"helpnow/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TESTCFG_DATABASE_DRIVER", "memory")

	c, err := loadConfig("TESTCFG")
	require.NoError(t, err)

	assert.Equal(t, uint(5000), c.ServerPort)
	assert.Equal(t, "helpNow-platform", c.DatabaseName)
	assert.Equal(t, 2592000, c.SessionMaxAgeSec)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, c.AllowedOrigins)
	assert.False(t, c.IsProduction())
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("TESTCFG_DATABASE_DRIVER", "postgres")
	t.Setenv("TESTCFG_DATABASE_URL", "")

	_, err := loadConfig("TESTCFG")
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	t.Setenv("TESTCFG_DATABASE_DRIVER", "sqlite")

	_, err := loadConfig("TESTCFG")
	assert.ErrorContains(t, err, "unsupported DATABASE_DRIVER")
}

func TestCookieKeys(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	hash := []byte("0123456789abcdef0123456789abcdef")
	c := &types.Config{CookieHashKey: base64.StdEncoding.EncodeToString(hash)}

	hashKey, blockKey, err := cookieKeys(c, logger)
	require.NoError(t, err)
	assert.Equal(t, hash, hashKey)
	assert.Len(t, blockKey, 32)

	c.CookieBlockKey = "not base64!"
	_, _, err = cookieKeys(c, logger)
	assert.ErrorContains(t, err, "COOKIE_BLOCK_KEY")
}
