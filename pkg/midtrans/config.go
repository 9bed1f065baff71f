package midtrans

import "time"

type Config struct {
	// CoreURL is the Core API host used for status queries and
	// notification verification, e.g. https://api.sandbox.midtrans.com.
	CoreURL string `mapstructure:"core_url"`
	// SnapURL is the Snap host used for session creation,
	// e.g. https://app.sandbox.midtrans.com.
	SnapURL    string        `mapstructure:"snap_url"`
	ServerKey  string        `mapstructure:"server_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`

	FinishURL  string `mapstructure:"finish_url"`
	ErrorURL   string `mapstructure:"error_url"`
	PendingURL string `mapstructure:"pending_url"`
}
