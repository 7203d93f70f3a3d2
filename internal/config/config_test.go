package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "memory")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ACCESS_TOKEN_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 60*time.Second, cfg.AccessTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes)
}

func TestLoad_MongoRequiresURI(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
}

func TestLoad_MySQLReportsEveryMissingVar(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "mysql")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")

	_, err := Load()
	require.Error(t, err)
	for _, key := range []string{"JWT_SECRET", "DB_USER", "DB_HOST", "DB_NAME"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestLoad_CustomTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
}

func TestLoad_RejectsBadTTLAndDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_TTL")
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_TTL", "0s")
	t.Setenv("CACHE_PREFIX", "")

	cfg := LoadCacheConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 5*time.Second, cfg.TTL)
	assert.Equal(t, "events-cache", cfg.Prefix)
	assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}
