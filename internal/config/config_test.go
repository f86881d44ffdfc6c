package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{
		"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_PATH",
		"TG_TOKEN", "TIMEZONE", "REFERENCE_PATH", "WIDGET_DIR", "REMINDER_WINDOW",
	} {
		t.Setenv(k, kv[k])
	}
}

func TestLoadSQLite(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_DRIVER":       "sqlite",
		"DB_PATH":         "dose.db",
		"TIMEZONE":        "Europe/Moscow",
		"REMINDER_WINDOW": "30",
	})

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 30, cfg.ReminderWindow)
	assert.Equal(t, "Europe/Moscow", cfg.Location().String())
	assert.ErrorIs(t, cfg.RequireToken(), ErrMissingToken)
}

func TestLoadPostgresRequiresHost(t *testing.T) {
	setEnv(t, map[string]string{"DB_DRIVER": "postgres", "DB_USER": "u", "DB_NAME": "n", "DB_PORT": "5432"})

	_, err := Load(zap.NewNop())
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DB_HOST":         "localhost",
		"DB_PORT":         "5432",
		"DB_USER":         "bot",
		"DB_NAME":         "dailydose",
		"TG_TOKEN":        "123:abc",
		"REMINDER_WINDOW": "many",
	})

	cfg, err := Load(zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "disable", cfg.DB.SSLMode)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 64, cfg.ReminderWindow)
	assert.NoError(t, cfg.RequireToken())
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{DB: DBConfig{Driver: "oracle"}, Timezone: "UTC", ReminderWindow: 10}
	assert.Error(t, cfg.Validate())

	cfg = &Config{DB: DBConfig{Driver: "sqlite", Path: ":memory:"}, Timezone: "Mars/Olympus", ReminderWindow: 10}
	assert.Error(t, cfg.Validate())
}
