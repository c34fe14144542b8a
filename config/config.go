package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "CAREHOURS_"

type Config struct {
	DataDir            string `toml:"DataDir"`
	Backend            string `toml:"Backend"`
	RPCAddress         string `toml:"RPCAddress"`
	BlockInterval      string `toml:"BlockInterval"`
	GenesisFile        string `toml:"GenesisFile"`
	JWTSecret          string `toml:"JWTSecret"`
	RateLimitPerMinute int    `toml:"RateLimitPerMinute"`
	EventArchiveDSN    string `toml:"EventArchiveDSN"`
	Environment        string `toml:"Environment"`
	LogLevel           string `toml:"LogLevel"`
	LogFile            string `toml:"LogFile"`
	OTLPEndpoint       string `toml:"OTLPEndpoint"`
	OTLPInsecure       bool   `toml:"OTLPInsecure"`
	OTLPHeaders        string `toml:"OTLPHeaders"`
	WebhookURL         string `toml:"WebhookURL"`
	WebhookSecret      string `toml:"WebhookSecret"`
}

// Default returns the configuration written for a fresh node.
func Default() *Config {
	return &Config{
		DataDir:            "./carehours-data",
		Backend:            "bolt",
		RPCAddress:         "127.0.0.1:8645",
		BlockInterval:      "5s",
		GenesisFile:        "genesis.yaml",
		RateLimitPerMinute: 120,
		Environment:        "local",
		LogLevel:           "info",
	}
}

// Load loads the configuration from the given path, creating a default file
// when none exists. Environment overrides are applied after decoding and the
// result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := persist(path, cfg); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		meta, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: %s: unknown key %s", path, undecoded[0])
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BlockDuration parses BlockInterval.
func (c *Config) BlockDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.BlockInterval))
	if err != nil {
		return 0
	}
	return d
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"DATA_DIR":          &c.DataDir,
		"BACKEND":           &c.Backend,
		"RPC_ADDRESS":       &c.RPCAddress,
		"BLOCK_INTERVAL":    &c.BlockInterval,
		"GENESIS_FILE":      &c.GenesisFile,
		"JWT_SECRET":        &c.JWTSecret,
		"EVENT_ARCHIVE_DSN": &c.EventArchiveDSN,
		"ENVIRONMENT":       &c.Environment,
		"LOG_LEVEL":         &c.LogLevel,
		"LOG_FILE":          &c.LogFile,
		"OTLP_ENDPOINT":     &c.OTLPEndpoint,
		"OTLP_HEADERS":      &c.OTLPHeaders,
		"WEBHOOK_URL":       &c.WebhookURL,
		"WEBHOOK_SECRET":    &c.WebhookSecret,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "RATE_LIMIT_PER_MINUTE"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sRATE_LIMIT_PER_MINUTE: %w", EnvPrefix, err)
		}
		c.RateLimitPerMinute = n
	}
	if v, ok := lookup(EnvPrefix + "OTLP_INSECURE"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %sOTLP_INSECURE: %w", EnvPrefix, err)
		}
		c.OTLPInsecure = b
	}
	return nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
