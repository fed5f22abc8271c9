package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 3, cfg.ConflictRetryAttempts)
	assert.Equal(t, 20, cfg.PageSizeDefault)
	assert.Equal(t, 100, cfg.PageSizeMax)
	assert.Equal(t, 72*time.Hour, cfg.AbandonedOrderTTL)
	assert.Equal(t, "0 */5 * * * *", cfg.AbandonedOrderSweep)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("DB_NAME=from_file\nPAGE_SIZE_MAX=50\n"), 0o600))
	// godotenv exports into the process environment.
	t.Cleanup(func() { _ = os.Unsetenv("PAGE_SIZE_MAX") })
	t.Setenv("DB_NAME", "from_env")
	t.Setenv("ABANDONED_ORDER_TTL", "30m")
	t.Setenv("CONFLICT_RETRY_ATTEMPTS", "5")

	cfg, err := LoadConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.DBName)
	assert.Equal(t, 50, cfg.PageSizeMax)
	assert.Equal(t, 30*time.Minute, cfg.AbandonedOrderTTL)
	assert.Equal(t, 5, cfg.ConflictRetryAttempts)
	assert.Contains(t, cfg.DSN(), "dbname=from_env")
}

func TestLoadConfig_RejectsInconsistentPageSizes(t *testing.T) {
	t.Setenv("PAGE_SIZE_DEFAULT", "200")
	t.Setenv("PAGE_SIZE_MAX", "100")

	_, err := LoadConfig("")
	require.Error(t, err)
}
