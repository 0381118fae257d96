package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o600))
	return dir
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	dir := writeConfig(t, `
database:
  host: "db"
  name: "ledger"
statistic:
  timezone: "Asia/Ho_Chi_Minh"
`)

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, ":8080", cfg.API.Port)
	assert.Equal(t, 10*time.Second, cfg.Ledger.OperationTimeout)
	assert.Equal(t, 3, cfg.Ledger.DeadlockRetries)
	assert.Equal(t, DispatchInline, cfg.Statistic.Dispatch)
	assert.Equal(t, "ledger.statistic", cfg.Statistic.Queue)
	assert.Equal(t, 30*time.Second, cfg.Sync.LockTTL)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Statistic.Location().String())
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "api:\n  port: \":9000\"\n")
	t.Setenv("LEDGER_API_PORT", ":9100")
	t.Setenv("LEDGER_SYNC_LOCK_TTL", "5s")

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.API.Port)
	assert.Equal(t, 5*time.Second, cfg.Sync.LockTTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown dispatch", content: "statistic:\n  dispatch: \"kafka\"\n"},
		{name: "unknown timezone", content: "statistic:\n  timezone: \"Mars/Olympus\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(viper.New(), writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := load(viper.New(), t.TempDir())
	assert.Error(t, err)
}
