package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{BaseURL: "https://craftforge.test"},
		Auth:   AuthConfig{Token: "tok"},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"token only", func(c *Config) {}, false},
		{"email and password", func(c *Config) {
			c.Auth = AuthConfig{Email: "usta@atolye.com", Password: "parola"}
		}, false},
		{"missing base_url", func(c *Config) { c.Server.BaseURL = "  " }, true},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://x" }, true},
		{"missing host", func(c *Config) { c.Server.BaseURL = "http://" }, true},
		{"no credentials", func(c *Config) { c.Auth = AuthConfig{} }, true},
		{"email without password", func(c *Config) {
			c.Auth = AuthConfig{Email: "usta@atolye.com"}
		}, true},
		{"bad request_timeout", func(c *Config) { c.Server.RequestTimeout = "soon" }, true},
		{"negative rate", func(c *Config) { c.Server.RatePerSec = -1 }, true},
		{"bad reconnect_delay", func(c *Config) { c.Channel.ReconnectDelay = "3 sec" }, true},
		{"resync enabled without schedule", func(c *Config) {
			c.Resync = ResyncConfig{Enabled: true}
		}, true},
		{"resync with schedule", func(c *Config) {
			c.Resync = ResyncConfig{Enabled: true, Schedule: "*/15 * * * *"}
		}, false},
		{"bad timezone", func(c *Config) {
			c.Resync = ResyncConfig{Enabled: true, Schedule: "@hourly", Timezone: "Mars/Olympus"}
		}, true},
		{"valid timezone", func(c *Config) {
			c.Resync = ResyncConfig{Enabled: true, Schedule: "@hourly", Timezone: "Europe/Istanbul"}
		}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := Validate(nil); err == nil {
		t.Fatal("Validate(nil) succeeded, want error")
	}
}

func TestEffectiveDurations(t *testing.T) {
	t.Parallel()

	var s ServerConfig
	if got := s.Timeout(); got != DefaultRequestTimeout {
		t.Fatalf("Timeout() = %v, want default %v", got, DefaultRequestTimeout)
	}
	s.RequestTimeout = "5s"
	if got := s.Timeout(); got != 5*time.Second {
		t.Fatalf("Timeout() = %v, want 5s", got)
	}
	s.RequestTimeout = "0s"
	if got := s.Timeout(); got != 0 {
		t.Fatalf("Timeout() = %v, want 0 (disabled)", got)
	}

	var c ChannelConfig
	if got := c.Delay(); got != DefaultReconnectDelay {
		t.Fatalf("Delay() = %v, want default %v", got, DefaultReconnectDelay)
	}
	c.ReconnectDelay = "500ms"
	if got := c.Delay(); got != 500*time.Millisecond {
		t.Fatalf("Delay() = %v, want 500ms", got)
	}
	if got := c.DialTimeout(); got != DefaultHandshakeTimeout {
		t.Fatalf("DialTimeout() = %v, want default %v", got, DefaultHandshakeTimeout)
	}
}

func TestParseDurationField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{"empty is zero", "", 0, false},
		{"whitespace is zero", "  ", 0, false},
		{"seconds", "3s", 3 * time.Second, false},
		{"compound", "1m30s", 90 * time.Second, false},
		{"bare number", "3", 0, true},
		{"negative", "-1s", 0, true},
		{"garbage", "soon", 0, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDurationField("test.field", tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}
