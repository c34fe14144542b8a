package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// MinJWTSecretBytes is the shortest accepted HS256 signing secret.
const MinJWTSecretBytes = 16

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case "bolt", "bbolt", "leveldb":
	default:
		return fmt.Errorf("config: unsupported Backend %q", c.Backend)
	}
	if _, _, err := net.SplitHostPort(c.RPCAddress); err != nil {
		return fmt.Errorf("config: RPCAddress %q: %w", c.RPCAddress, err)
	}
	if c.BlockDuration() <= 0 {
		return fmt.Errorf("config: BlockInterval %q must be a positive duration", c.BlockInterval)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: RateLimitPerMinute must not be negative")
	}
	if secret := c.JWTSecret; secret != "" && len(secret) < MinJWTSecretBytes {
		return fmt.Errorf("config: JWTSecret must be at least %d bytes", MinJWTSecretBytes)
	}
	if strings.TrimSpace(c.WebhookURL) != "" {
		parsed, err := url.Parse(strings.TrimSpace(c.WebhookURL))
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("config: WebhookURL %q must be an http(s) URL", c.WebhookURL)
		}
		if c.WebhookSecret == "" {
			return fmt.Errorf("config: WebhookSecret required when WebhookURL is set")
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unsupported LogLevel %q", c.LogLevel)
	}
	return nil
}
