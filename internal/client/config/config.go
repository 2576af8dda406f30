package config

import "time"

// Config holds runtime settings for the taskdeck CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API, including the path
//     prefix (e.g. http://127.0.0.1:8000/api).
//   - LivenessInterval: how often the client re-checks the session while
//     signed in.
//   - RefreshThreshold: how close to expiry an access token may get before
//     it is refreshed ahead of a request.
//   - DatabasePath: path of the local credential database file.
type Config struct {
	ServerBaseURL    string
	DatabasePath     string
	LivenessInterval time.Duration
	RefreshThreshold time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8000/api"
	c.DatabasePath = "taskdeck.db"
	c.LivenessInterval = 3 * time.Minute
	c.RefreshThreshold = 15 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment (including an optional .env file), JSON (if
// present) and command-line flags. Later sources take precedence over
// earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
