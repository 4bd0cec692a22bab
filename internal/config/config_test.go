package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_NAME", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 24*time.Hour, cfg.JWT.AccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTTL)
	require.False(t, cfg.Database.UsesPostgres())
	require.Equal(t, "db.sqlite3", cfg.Database.SQLitePath)
}

func TestLoadPostgresFromParts(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_NAME", "mimi")
	t.Setenv("DB_USER", "mimi")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("JWT_ACCESS_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.Database.UsesPostgres())
	require.Contains(t, cfg.Database.DSN(), "dbname=mimi")
	require.Equal(t, time.Hour, cfg.JWT.AccessTTL)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	require.Error(t, err)
}

func TestMask(t *testing.T) {
	require.Equal(t, "****", Mask("abc"))
	require.Equal(t, "se****et", Mask("secret"))
}
