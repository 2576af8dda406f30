package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv(t *testing.T) {
	t.Run("overlays known variables", func(t *testing.T) {
		t.Setenv(envServerBaseURL, "http://api.example:9000/api")
		t.Setenv(envLivenessInterval, "90s")
		t.Setenv(envRefreshThreshold, "5m")
		t.Setenv(envDatabasePath, "/tmp/creds.db")

		cfg := &Config{}
		cfg.LoadDefaults()
		parseEnv(cfg)

		assert.Equal(t, "http://api.example:9000/api", cfg.ServerBaseURL)
		assert.Equal(t, "/tmp/creds.db", cfg.DatabasePath)
		assert.Equal(t, 90*time.Second, cfg.LivenessInterval)
		assert.Equal(t, 5*time.Minute, cfg.RefreshThreshold)
	})

	t.Run("malformed duration keeps previous value", func(t *testing.T) {
		t.Setenv(envLivenessInterval, "soon")

		cfg := &Config{}
		cfg.LoadDefaults()
		parseEnv(cfg)

		assert.Equal(t, 3*time.Minute, cfg.LivenessInterval)
	})

	t.Run("unset variables keep previous values", func(t *testing.T) {
		cfg := &Config{ServerBaseURL: "keep:1234", LivenessInterval: 42 * time.Second}
		parseEnv(cfg)

		assert.Equal(t, "keep:1234", cfg.ServerBaseURL)
		assert.Equal(t, 42*time.Second, cfg.LivenessInterval)
	})
}
