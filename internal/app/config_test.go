package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbpkg "github.com/yungbote/classroom-backend/internal/data/db"
	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("CONFIG_FILE", "")
	os.Unsetenv("DB_DRIVER")
	os.Unsetenv("CONFIG_FILE")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "5001", cfg.Port)
	assert.Equal(t, dbpkg.DriverPostgres, cfg.DB.Driver)
	assert.Contains(t, cfg.DB.DSN, "postgres://")
	assert.Equal(t, 7*24*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, 2*time.Second, cfg.DBHealthInterval)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("ACCESS_TOKEN_TTL", "60")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("DB_HEALTH_INTERVAL", "5s")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, dbpkg.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.DB.SQLitePath)
	assert.Empty(t, cfg.DB.DSN)
	assert.Equal(t, time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 5*time.Second, cfg.DBHealthInterval)
}

func TestLoadConfigDatabaseURLWins(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.DSN)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classroom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"7000\"\nDB_DRIVER: sqlite\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")
	t.Setenv("DB_DRIVER", "")
	os.Unsetenv("DB_DRIVER")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, dbpkg.DriverSQLite, cfg.DB.Driver)
}

func TestLoadConfigRejects(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := LoadConfig(logger.Nop())
		assert.Error(t, err)
	})
	t.Run("default secret in production", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("APP_ENV", "production")
		t.Setenv("JWT_SECRET_KEY", "")
		os.Unsetenv("JWT_SECRET_KEY")
		_, err := LoadConfig(logger.Nop())
		assert.Error(t, err)
	})
	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := LoadConfig(logger.Nop())
		assert.Error(t, err)
	})
}
