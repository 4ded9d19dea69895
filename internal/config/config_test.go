package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "database", cfg.Session.Backend)
	assert.Equal(t, 20, cfg.Pagination.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL())
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BACKOFFICE_SERVER_PORT", "9090")
	t.Setenv("BACKOFFICE_SESSION_BACKEND", "redis")
	t.Setenv("BACKOFFICE_APP_LANGUAGE", "es")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "es", cfg.App.Language)
}

func TestLoad_ReleaseRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("release")
	assert.Error(t, err)

	t.Setenv("BACKOFFICE_AUTH_JWT_SECRET", "a-real-secret")
	cfg, err := Load("release")
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestLoad_RejectsUnknownSessionBackend(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BACKOFFICE_SESSION_BACKEND", "memcached")

	_, err := Load("")
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5432, Name: "bo", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/bo?sslmode=disable", d.DSN())
}
