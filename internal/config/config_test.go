package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setKeys(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_KEY", "access-secret")
	t.Setenv("REFRESH_TOKEN_KEY", "refresh-secret")
}

func TestLoadDefaults(t *testing.T) {
	setKeys(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1800*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "export:songs", cfg.Queue.ExportQueue)
	assert.Equal(t, QueueAMQP, cfg.Queue.Driver)
	assert.Equal(t, "http://localhost:5000", cfg.Server.PublicBaseURL)
	assert.Equal(t, "localhost:5000", cfg.Addr())
}

func TestLoadFileThenEnv(t *testing.T) {
	setKeys(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
host = "0.0.0.0"
port = 8080

[cache]
ttl = "10m"

[queue]
driver = "redis"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("PORT", "9090")
	t.Setenv("ACCESS_TOKEN_AGE", "1800")
	t.Setenv("PUBLIC_BASE_URL", "https://music.example.com/")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, QueueRedis, cfg.Queue.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenAge)
	assert.Equal(t, "https://music.example.com", cfg.Server.PublicBaseURL)
}

func TestLoadErrors(t *testing.T) {
	t.Run("MissingKeys", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_KEY", "")
		t.Setenv("REFRESH_TOKEN_KEY", "")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ACCESS_TOKEN_KEY is required")
		assert.Contains(t, err.Error(), "REFRESH_TOKEN_KEY is required")
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		setKeys(t)
		t.Setenv("QUEUE_DRIVER", "kafka")

		_, err := Load("")
		assert.ErrorContains(t, err, `unknown queue driver "kafka"`)
	})

	t.Run("BadDuration", func(t *testing.T) {
		setKeys(t)
		t.Setenv("CACHE_TTL", "soon")

		_, err := Load("")
		assert.ErrorContains(t, err, "CACHE_TTL")
	})

	t.Run("ZeroServerTimeout", func(t *testing.T) {
		setKeys(t)
		t.Setenv("SERVER_TIMEOUT", "0")

		_, err := Load("")
		assert.ErrorContains(t, err, "server timeout must be positive")
	})

	t.Run("ZeroPublishTimeout", func(t *testing.T) {
		setKeys(t)
		t.Setenv("PUBLISH_TIMEOUT", "0s")

		_, err := Load("")
		assert.ErrorContains(t, err, "publish timeout must be positive")
	})

	t.Run("MissingFile", func(t *testing.T) {
		setKeys(t)

		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorContains(t, err, "read config file")
	})
}

func TestServerMiddlewareSettings(t *testing.T) {
	setKeys(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "*", cfg.Server.CORSOrigin)
	assert.Zero(t, cfg.Server.RateLimitRPS)

	t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")
	t.Setenv("RATE_LIMIT_RPS", "20")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com", cfg.Server.CORSOrigin)
	assert.Equal(t, 20, cfg.Server.RateLimitRPS)

	t.Setenv("RATE_LIMIT_RPS", "-1")
	_, err = Load("")
	assert.ErrorContains(t, err, "rate limit")
}

func TestEmptyRedisURLDisablesCache(t *testing.T) {
	setKeys(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redis://localhost:6379", cfg.Cache.RedisURL)

	t.Setenv("REDIS_URL", "")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Cache.RedisURL)
}
