package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Defaults applied when the corresponding field is omitted.
const (
	DefaultRequestTimeout   = 15 * time.Second
	DefaultReconnectDelay   = 3 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
)

// Validate checks a parsed config before it is committed. It is installed as
// the manager's validator so a bad edit never replaces a working config.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	base := strings.TrimSpace(cfg.Server.BaseURL)
	if base == "" {
		return fmt.Errorf("server.base_url is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("server.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server.base_url: missing host")
	}

	if _, err := ParseDurationField("server.request_timeout", cfg.Server.RequestTimeout); err != nil {
		return err
	}
	if cfg.Server.RatePerSec < 0 {
		return fmt.Errorf("server.rate_per_sec must be >= 0")
	}
	if cfg.Server.Burst < 0 {
		return fmt.Errorf("server.burst must be >= 0")
	}

	if strings.TrimSpace(cfg.Auth.Token) == "" {
		if strings.TrimSpace(cfg.Auth.Email) == "" || strings.TrimSpace(cfg.Auth.Password) == "" {
			return fmt.Errorf("auth: either token or email+password is required")
		}
	}

	if _, err := ParseDurationField("channel.reconnect_delay", cfg.Channel.ReconnectDelay); err != nil {
		return err
	}
	if _, err := ParseDurationField("channel.handshake_timeout", cfg.Channel.HandshakeTimeout); err != nil {
		return err
	}

	if cfg.Resync.Enabled && strings.TrimSpace(cfg.Resync.Schedule) == "" {
		return fmt.Errorf("resync.schedule is required when resync is enabled")
	}
	if tz := strings.TrimSpace(cfg.Resync.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("resync.timezone: %w", err)
		}
	}

	return nil
}

// Timeout returns the effective per-request timeout.
func (s ServerConfig) Timeout() time.Duration {
	d, err := ParseDurationField("server.request_timeout", s.RequestTimeout)
	if err != nil || strings.TrimSpace(s.RequestTimeout) == "" {
		return DefaultRequestTimeout
	}
	return d
}

// Delay returns the effective pause between reconnect attempts.
func (c ChannelConfig) Delay() time.Duration {
	d, err := ParseDurationOrDefault("channel.reconnect_delay", c.ReconnectDelay, DefaultReconnectDelay)
	if err != nil {
		return DefaultReconnectDelay
	}
	return d
}

func (c ChannelConfig) DialTimeout() time.Duration {
	d, err := ParseDurationOrDefault("channel.handshake_timeout", c.HandshakeTimeout, DefaultHandshakeTimeout)
	if err != nil {
		return DefaultHandshakeTimeout
	}
	return d
}
