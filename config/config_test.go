package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, 5*time.Second, cfg.BlockDuration())

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `DataDir = "/var/lib/carehours"
Backend = "leveldb"
RPCAddress = "0.0.0.0:9000"
BlockInterval = "2s"
GenesisFile = "/etc/carehours/genesis.yaml"
JWTSecret = "0123456789abcdef0123"
RateLimitPerMinute = 30
EventArchiveDSN = "file:events.db"
Environment = "staging"
LogFile = "/var/log/carehours.log"
OTLPEndpoint = "otel:4318"
OTLPInsecure = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "leveldb", cfg.Backend)
	require.Equal(t, 2*time.Second, cfg.BlockDuration())
	require.Equal(t, 30, cfg.RateLimitPerMinute)
	require.Equal(t, "file:events.db", cfg.EventArchiveDSN)
	require.True(t, cfg.OTLPInsecure)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("PeerKey = \"abc\"\n"), 0o600))
	_, err := Load(path)
	require.ErrorContains(t, err, "unknown key")
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("CAREHOURS_RPC_ADDRESS", "127.0.0.1:9999")
	t.Setenv("CAREHOURS_RATE_LIMIT_PER_MINUTE", "5")
	t.Setenv("CAREHOURS_OTLP_INSECURE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9999", cfg.RPCAddress)
	require.Equal(t, 5, cfg.RateLimitPerMinute)
	require.True(t, cfg.OTLPInsecure)

	t.Setenv("CAREHOURS_RATE_LIMIT_PER_MINUTE", "lots")
	_, err = Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"empty data dir": func(c *Config) { c.DataDir = " " },
		"backend":        func(c *Config) { c.Backend = "sqlite" },
		"rpc address":    func(c *Config) { c.RPCAddress = "nowhere" },
		"block interval": func(c *Config) { c.BlockInterval = "0s" },
		"bad interval":   func(c *Config) { c.BlockInterval = "soon" },
		"rate limit":     func(c *Config) { c.RateLimitPerMinute = -1 },
		"short secret":   func(c *Config) { c.JWTSecret = "short" },
		"log level":      func(c *Config) { c.LogLevel = "chatty" },
		"webhook scheme": func(c *Config) { c.WebhookURL = "ftp://hooks.example" },
		"webhook secret": func(c *Config) { c.WebhookURL = "https://hooks.example/care" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, Default().Validate())
}
