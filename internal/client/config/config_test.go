package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	os.Args = append([]string{"vaultpass"}, args...)
	t.Cleanup(func() { os.Args = orig })
}

func TestLoadConfig_Defaults(t *testing.T) {
	withArgs(t)

	cfg := LoadConfig()
	require.Equal(t, "http://localhost:8000/api/v1/password-manager", cfg.APIBaseURL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, "vaultpass.db", cfg.DatabasePath)
}

func TestLoadConfig_EnvOverridesDefaults(t *testing.T) {
	withArgs(t)
	t.Setenv("VAULTPASS_API_BASE_URL", "https://vault.example.com/api")
	t.Setenv("VAULTPASS_REQUEST_TIMEOUT", "10s")

	cfg := LoadConfig()
	require.Equal(t, "https://vault.example.com/api", cfg.APIBaseURL)
	require.Equal(t, 10*time.Second, cfg.RequestTimeout)
	require.Equal(t, "vaultpass.db", cfg.DatabasePath, "untouched fields keep defaults")
}

func TestLoadConfig_JsonOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"api_base_url": "https://json.example.com/api",
		"request_timeout": "15s"
	}`), 0o600))

	withArgs(t, "-c", path)
	t.Setenv("VAULTPASS_API_BASE_URL", "https://env.example.com/api")

	cfg := LoadConfig()
	require.Equal(t, "https://json.example.com/api", cfg.APIBaseURL)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_FlagsWin(t *testing.T) {
	withArgs(t, "-a", "https://flag.example.com/api", "-t", "5", "-d", "alt.db")
	t.Setenv("VAULTPASS_API_BASE_URL", "https://env.example.com/api")

	cfg := LoadConfig()
	require.Equal(t, "https://flag.example.com/api", cfg.APIBaseURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, "alt.db", cfg.DatabasePath)
}

func TestParseJson_MissingFlagLeavesConfigAlone(t *testing.T) {
	withArgs(t)

	cfg := &Config{}
	cfg.LoadDefaults()
	before := *cfg
	parseJson(cfg)
	require.Equal(t, before, *cfg)
}
