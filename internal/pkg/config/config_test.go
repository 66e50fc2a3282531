package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadWith(context.Background(), envconfig.MapLookuper(env))
}

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := load(t, map[string]string{"JWT_SECRET": "s3cret"})
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "jwt", cfg.JWTCookie)
	assert.Equal(t, DriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 10, cfg.Postgres.MaxConns)
	assert.Equal(t, "racing", cfg.Mongo.Database)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.CacheEnabled())
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := load(t, map[string]string{
		"JWT_SECRET":       "s3cret",
		"ENV":              "Production",
		"STORAGE_DRIVER":   "mongo",
		"REDIS_ADDR":       "cache:6379",
		"USER_CACHE_TTL":   "30s",
		"SHUTDOWN_TIMEOUT": "3s",
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, DriverMongo, cfg.StorageDriver)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadWith_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing secret": {},
		"blank secret":   {"JWT_SECRET": "   "},
		"unknown driver": {"JWT_SECRET": "s", "STORAGE_DRIVER": "sqlite"},
		"bad duration":   {"JWT_SECRET": "s", "SHUTDOWN_TIMEOUT": "soon"},
		"zero shutdown":  {"JWT_SECRET": "s", "SHUTDOWN_TIMEOUT": "0s"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(t, env)
			assert.Error(t, err)
		})
	}
}
