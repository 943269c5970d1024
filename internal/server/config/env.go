package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv overlays USERMGMT_* environment variables onto config. Variables
// from dotenvPath are loaded first without overriding the real environment;
// a missing file is not an error. Unset variables leave fields untouched.
// Malformed values panic, like the other config sources.
func parseEnv(config *Config, dotenvPath string) {
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
