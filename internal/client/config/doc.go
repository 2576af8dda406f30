// Package config loads runtime configuration for the taskdeck CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, with an optional .env file (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path of the local credential database
//	-i int      session liveness check interval (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be
// either strings like "3m" or integer nanoseconds:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8000/api",
//	  "database_path": "taskdeck.db",
//	  "liveness_interval": "3m",
//	  "refresh_threshold": "15m"
//	}
package config
