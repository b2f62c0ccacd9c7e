package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"event-checkin/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 1, cfg.Registration.CodeAttempts)
	assert.False(t, cfg.Registration.Lock)
	assert.Empty(t, cfg.Access.VolunteerKeyHash)
	assert.Same(t, cfg, config.AppConfig)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/data/checkin.db")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TICKET_CODE_ATTEMPTS", "5")
	t.Setenv("REGISTRATION_LOCK", "true")
	t.Setenv("REGISTRATION_LOCK_WAIT", "500ms")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/data/checkin.db", cfg.SQLite.Path)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 5, cfg.Registration.CodeAttempts)
	assert.True(t, cfg.Registration.Lock)
	assert.Equal(t, 500*time.Millisecond, cfg.Registration.LockWait)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_ADDR=:9090\nDB_NAME=checkin\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("SERVER_ADDR")
		_ = os.Unsetenv("DB_NAME")
	})

	cfg, err := config.LoadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "checkin", cfg.Database.DBName)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("code attempts below one", func(t *testing.T) {
		t.Setenv("TICKET_CODE_ATTEMPTS", "0")
		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("SHUTDOWN_TIMEOUT", "soon")
		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}

func TestLoadTestConfig(t *testing.T) {
	cfg := config.LoadTestConfig()
	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, "6380", cfg.Redis.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}
