package config

type Config struct {
	Server  ServerConfig  `json:"server"`
	Auth    AuthConfig    `json:"auth"`
	Logging LoggingConfig `json:"logging"`
	Channel ChannelConfig `json:"channel"`
	Resync  ResyncConfig  `json:"resync,omitempty"`
	Export  ExportConfig  `json:"export,omitempty"`
}

// ServerConfig points the client at the CraftForge backend.
//
// BaseURL is the HTTP origin (e.g. "https://craftforge.example.com"); the
// "/api" prefix and the websocket endpoint are derived from it.
type ServerConfig struct {
	BaseURL string `json:"base_url"`

	// RequestTimeout is a Go duration string (e.g. "10s", "1m").
	// Use "0s" to disable the per-request timeout.
	RequestTimeout string `json:"request_timeout,omitempty"`

	// Client-side request rate limiting. Zero values disable limiting.
	RatePerSec float64 `json:"rate_per_sec,omitempty"`
	Burst      int     `json:"burst,omitempty"`
}

// AuthConfig carries the credentials used to open a session.
//
// If Token is set it is used directly; otherwise Email/Password are exchanged
// for a token at startup. Never log any of these.
type AuthConfig struct {
	Token    string `json:"token,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// ChannelConfig controls the realtime notification channel.
//
// All durations are Go duration strings (e.g. "3s", "500ms").
type ChannelConfig struct {
	// ReconnectDelay is the fixed pause between a drop and the next dial
	// attempt. Defaults to "3s" when omitted.
	ReconnectDelay string `json:"reconnect_delay,omitempty"`

	// HandshakeTimeout bounds the websocket dial. Defaults to "10s".
	HandshakeTimeout string `json:"handshake_timeout,omitempty"`
}

// ResyncConfig controls the periodic full refetch that repairs any state
// missed while the channel was down.
type ResyncConfig struct {
	Enabled bool `json:"enabled"`

	// Schedule is a cron expression (e.g. "*/15 * * * *").
	Schedule string `json:"schedule,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// ExportConfig controls where spreadsheet exports are written.
type ExportConfig struct {
	Dir string `json:"dir,omitempty"`
}
