package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment, after
// loading a .env file from the working directory when one exists. Variables
// use the VAULTPASS_ prefix:
//
//	VAULTPASS_API_BASE_URL     — backend base URL
//	VAULTPASS_REQUEST_TIMEOUT  — e.g. "30s"
//	VAULTPASS_DATABASE_PATH    — local database file
func parseEnv(cfg *Config) {
	// A missing .env is the normal case, not an error.
	_ = godotenv.Load()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "VAULTPASS_"}); err != nil {
		panic(err)
	}
}
