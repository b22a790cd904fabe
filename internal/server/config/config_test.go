package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendBolt, cfg.StorageBackend)
	assert.Equal(t, "privmsg.db", cfg.StoragePath)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("PRIVMSG_ADDR", ":9090")
	t.Setenv("PRIVMSG_STORAGE", BackendSQLite)
	t.Setenv("PRIVMSG_ACCESS_TTL", "5m")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("PRIVMSG_ADDR", ":9090")

	cfg, err := Load([]string{"-addr", ":7070", "-storage", "sqlite", "-path", "/tmp/test.db"})
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, "/tmp/test.db", cfg.StoragePath)
}

func TestLoad_InvalidBackend(t *testing.T) {
	_, err := Load([]string{"-storage", "postgres"})
	assert.Error(t, err)
}

func TestLoad_InvalidFlag(t *testing.T) {
	_, err := Load([]string{"-no-such-flag"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, cfg.Validate())

	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())

	cfg.LoadDefaults()
	cfg.AccessTokenTTL = 0
	assert.Error(t, cfg.Validate())
}
