package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "")
	t.Setenv("CLIENT_STATE_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "database", cfg.Auth.Provider)
	assert.Equal(t, "bolt", cfg.ClientState.Backend)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, 2*time.Hour, cfg.Admin.SessionMaxAge)
	assert.Equal(t, 5, cfg.Scheduler.HotTemplateCount)
}

func TestLoad_RedisBackendRequiresRedis(t *testing.T) {
	t.Setenv("CLIENT_STATE_BACKEND", "redis")
	t.Setenv("REDIS_ENABLED", "false")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_UnknownAuthProvider(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "ldap")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseSlice(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, parseSlice("http://a, http://b,"))
	assert.Equal(t, []string{}, parseSlice(""))
}

func TestParseDuration_Fallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("not-a-duration", time.Minute))
	assert.Equal(t, 3*time.Second, parseDuration("3s", time.Minute))
}
