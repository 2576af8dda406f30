package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognized by parseEnv. Durations use the
// time.ParseDuration syntax ("3m", "90s").
const (
	envServerBaseURL    = "TASKDECK_SERVER_URL"
	envDatabasePath     = "TASKDECK_DB_PATH"
	envLivenessInterval = "TASKDECK_LIVENESS_INTERVAL"
	envRefreshThreshold = "TASKDECK_REFRESH_THRESHOLD"
)

// parseEnv overlays Config with values from the process environment. A
// .env file in the working directory is loaded first when present; real
// environment variables win over .env entries, which is godotenv's
// default behavior. Malformed durations are ignored.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(envServerBaseURL); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv(envDatabasePath); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv(envLivenessInterval); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LivenessInterval = d
		}
	}
	if v := os.Getenv(envRefreshThreshold); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RefreshThreshold = d
		}
	}
}
