package config

import (
	"sort"
	"strings"

	logx "craftforge/pkg/logx"
)

// SummarizeConfigChange returns (1) a compact list of changed sections and
// (2) safe structured attrs for logging (never includes secrets like tokens
// or passwords).
func SummarizeConfigChange(oldCfg, newCfg *Config) ([]string, []logx.Field) {
	if oldCfg == nil {
		oldCfg = &Config{}
	}
	if newCfg == nil {
		newCfg = &Config{}
	}

	changed := make([]string, 0, 5)
	attrs := make([]logx.Field, 0, 16)

	if strings.TrimSpace(oldCfg.Server.BaseURL) != strings.TrimSpace(newCfg.Server.BaseURL) ||
		strings.TrimSpace(oldCfg.Server.RequestTimeout) != strings.TrimSpace(newCfg.Server.RequestTimeout) ||
		oldCfg.Server.RatePerSec != newCfg.Server.RatePerSec ||
		oldCfg.Server.Burst != newCfg.Server.Burst {
		changed = append(changed, "server")
		attrs = append(attrs,
			logx.String("server.base_url", strings.TrimSpace(newCfg.Server.BaseURL)),
			logx.String("server.request_timeout", strings.TrimSpace(newCfg.Server.RequestTimeout)),
			logx.Float64("server.rate_per_sec", newCfg.Server.RatePerSec),
			logx.Int("server.burst", newCfg.Server.Burst),
		)
	}

	// Auth (never log credential values)
	if strings.TrimSpace(oldCfg.Auth.Token) != strings.TrimSpace(newCfg.Auth.Token) ||
		strings.TrimSpace(oldCfg.Auth.Email) != strings.TrimSpace(newCfg.Auth.Email) ||
		strings.TrimSpace(oldCfg.Auth.Password) != strings.TrimSpace(newCfg.Auth.Password) {
		changed = append(changed, "auth")
		attrs = append(attrs,
			logx.Bool("auth.token_set", strings.TrimSpace(newCfg.Auth.Token) != ""),
			logx.Bool("auth.email_set", strings.TrimSpace(newCfg.Auth.Email) != ""),
		)
	}

	if oldCfg.Logging.Level != newCfg.Logging.Level ||
		oldCfg.Logging.Console != newCfg.Logging.Console ||
		oldCfg.Logging.File.Enabled != newCfg.Logging.File.Enabled ||
		strings.TrimSpace(oldCfg.Logging.File.Path) != strings.TrimSpace(newCfg.Logging.File.Path) {
		changed = append(changed, "logging")
		attrs = append(attrs,
			logx.String("logx.level", newCfg.Logging.Level),
			logx.Bool("logx.console", newCfg.Logging.Console),
			logx.Bool("logx.file_enabled", newCfg.Logging.File.Enabled),
		)
	}

	if strings.TrimSpace(oldCfg.Channel.ReconnectDelay) != strings.TrimSpace(newCfg.Channel.ReconnectDelay) ||
		strings.TrimSpace(oldCfg.Channel.HandshakeTimeout) != strings.TrimSpace(newCfg.Channel.HandshakeTimeout) {
		changed = append(changed, "channel")
		attrs = append(attrs,
			logx.String("channel.reconnect_delay", strings.TrimSpace(newCfg.Channel.ReconnectDelay)),
			logx.String("channel.handshake_timeout", strings.TrimSpace(newCfg.Channel.HandshakeTimeout)),
		)
	}

	if oldCfg.Resync.Enabled != newCfg.Resync.Enabled ||
		strings.TrimSpace(oldCfg.Resync.Schedule) != strings.TrimSpace(newCfg.Resync.Schedule) ||
		strings.TrimSpace(oldCfg.Resync.Timezone) != strings.TrimSpace(newCfg.Resync.Timezone) {
		changed = append(changed, "resync")
		attrs = append(attrs,
			logx.Bool("resync.enabled", newCfg.Resync.Enabled),
			logx.String("resync.schedule", strings.TrimSpace(newCfg.Resync.Schedule)),
			logx.String("resync.timezone", strings.TrimSpace(newCfg.Resync.Timezone)),
		)
	}

	if strings.TrimSpace(oldCfg.Export.Dir) != strings.TrimSpace(newCfg.Export.Dir) {
		changed = append(changed, "export")
		attrs = append(attrs, logx.String("export.dir", strings.TrimSpace(newCfg.Export.Dir)))
	}

	sort.Strings(changed)
	return changed, attrs
}

// RestartRequired filters a change summary down to the sections whose values
// bind at session start and only take effect on the next daemon restart.
func RestartRequired(sections []string) []string {
	var out []string
	for _, s := range sections {
		switch s {
		case "server", "auth", "channel":
			out = append(out, s)
		}
	}
	return out
}
