package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/avelasquez-dev/taskdeck/internal/flagx"
	"github.com/avelasquez-dev/taskdeck/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "3m" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ServerBaseURL    string         `json:"server_base_url"`
	DatabasePath     string         `json:"database_path"`
	LivenessInterval timex.Duration `json:"liveness_interval"`
	RefreshThreshold timex.Duration `json:"refresh_threshold"`
}

// parseJson overlays Config with values loaded from a JSON file selected
// via -c or -config. When no file is named the function returns without
// touching cfg; read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LivenessInterval.Duration != 0 {
		cfg.LivenessInterval = time.Duration(jc.LivenessInterval.Duration)
	}
	if jc.RefreshThreshold.Duration != 0 {
		cfg.RefreshThreshold = time.Duration(jc.RefreshThreshold.Duration)
	}
}
