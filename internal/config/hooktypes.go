package config

// SpeakConfig defines the external text-to-speech command run for each response.
type SpeakConfig struct {
	Enabled     bool              `toml:"enabled"`
	Command     string            `toml:"command"`
	Args        []string          `toml:"args"`
	ArgsLine    string            `toml:"args_line"` // shell-style alternative to args
	CooldownSec float64           `toml:"cooldown_sec"`
	TimeoutSec  float64           `toml:"timeout_sec"`
	QueueSize   int               `toml:"queue_size"`
	Env         map[string]string `toml:"env"`
	RedactPII   bool              `toml:"redact_pii"`
}
