package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Contains(t, cfg.DatabaseDSN, "postgres://")
	assert.Equal(t, 4, cfg.FetchWorkers)
	assert.Equal(t, 2, cfg.PersistWorkers)
	assert.Equal(t, time.Second, cfg.Backoff)
	assert.Equal(t, time.Minute, cfg.PersistTimeout)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LOBBYREG_DSN", "postgres://other:5432/db")
	t.Setenv("LOBBYREG_API_KEY", "secret")
	t.Setenv("LOBBYREG_FETCH_WORKERS", "16")
	t.Setenv("LOBBYREG_FETCH_TIMEOUT", "90s")

	cfg := FromEnv()
	assert.Equal(t, "postgres://other:5432/db", cfg.DatabaseDSN)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, 16, cfg.FetchWorkers)
	assert.Equal(t, 90*time.Second, cfg.FetchTimeout)
}

func TestFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("LOBBYREG_FETCH_WORKERS", "lots")
	t.Setenv("LOBBYREG_BACKOFF", "-5s")

	cfg := FromEnv()
	assert.Equal(t, 4, cfg.FetchWorkers)
	assert.Equal(t, time.Second, cfg.Backoff)
}
