package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// lookupFunc reports the value of an environment-style variable.
type lookupFunc func(name string) (string, bool)

// loadFromEnv overrides config fields from variables reported by lookup.
func loadFromEnv(cfg *Config, lookup lookupFunc, source Source) error {
	for _, key := range Keys() {
		name := EnvName(key)
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		if err := cfg.setString(key, v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		cfg.Sources[key] = source
	}
	return nil
}

// readEnvFile reads a dotenv file. Variables already present in the
// process environment are dropped so real env always wins.
func readEnvFile(path string) (lookupFunc, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	return func(name string) (string, bool) {
		if _, set := os.LookupEnv(name); set {
			return "", false
		}
		v, ok := values[name]
		return v, ok
	}, nil
}
