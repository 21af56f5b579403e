package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"marketwatch/internal/config"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestLoad_JSONFile(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	path := writeFile(t, "config.json", `{
		"server": {"port": "9090"},
		"alphavantage": {"api_key": "file-key", "max_retries": 0},
		"watchlist": {"pair_policy": "replace", "max_pairs": 8}
	}`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, 10, cfg.Server.RequestTimeoutSec)
	require.Equal(t, "file-key", cfg.AlphaVantage.APIKey)
	require.Zero(t, cfg.AlphaVantage.MaxRetries)
	require.Equal(t, "replace", cfg.Watchlist.PairPolicy)
	require.Equal(t, 8, cfg.Watchlist.MaxPairs)
	require.Equal(t, 5, cfg.Watchlist.MaxStocks)
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	path := writeFile(t, "config.yaml", "log:\n  level: debug\n  format: text\ncontent:\n  path: /srv/topics.json\n")

	cfg, err := config.Load(path)

	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "text", cfg.Log.Format)
	require.Equal(t, "/srv/topics.json", cfg.Content.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	t.Setenv("ALPHAVANTAGE_API_KEY", "env-key")
	t.Setenv("PORT", "7070")
	t.Setenv("WATCHLIST_MAX_STOCKS", "3")
	path := writeFile(t, "config.json", `{"alphavantage": {"api_key": "file-key"}}`)

	cfg, err := config.Load(path)

	require.NoError(t, err)
	require.Equal(t, "env-key", cfg.AlphaVantage.APIKey)
	require.Equal(t, "7070", cfg.Server.Port)
	require.Equal(t, 3, cfg.Watchlist.MaxStocks)
}

func TestLoad_Dotenv(t *testing.T) {
	env := writeFile(t, "test.env", "ALPHAVANTAGE_API_KEY=dotenv-key\n")
	t.Setenv("ENV_FILE", env)
	// godotenv.Load never overrides, so make sure the variable starts unset
	// and is removed again afterwards.
	t.Setenv("ALPHAVANTAGE_API_KEY", "")
	require.NoError(t, os.Unsetenv("ALPHAVANTAGE_API_KEY"))

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.json"))

	require.NoError(t, err)
	require.Equal(t, "dotenv-key", cfg.AlphaVantage.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")

	bad := writeFile(t, "config.json", `{"server": `)
	_, err := config.Load(bad)
	require.Error(t, err)

	policy := writeFile(t, "config.json", `{"watchlist": {"pair_policy": "sometimes"}}`)
	_, err = config.Load(policy)
	require.ErrorContains(t, err, "pair_policy")
}
