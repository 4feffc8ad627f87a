// Package config loads runtime configuration for the VaultPass CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables with the VAULTPASS_ prefix, including a .env
//     file loaded from the working directory (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-t int      request timeout (seconds)
//	-d string   path of the local database file
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8000/api/v1/password-manager",
//	  "request_timeout": "30s",
//	  "database_path": "vaultpass.db"
//	}
//
// Primary API
//
//   - type Config                     — holds APIBaseURL, RequestTimeout, DatabasePath
//   - func LoadConfig() *Config       — builds Config by applying all sources in order
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
