package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/taskflow/internal/logging"
)

// Load parses args with fs and resolves the configuration from all layers.
// Subcommand flags may be defined on fs before calling Load; positional
// arguments are left in fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	if fs == nil {
		fs = flag.NewFlagSet("taskflow", flag.ContinueOnError)
	}
	fv := bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}
	set := setFlags(fs)

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	cfg := &Config{}

	// 1. Defaults
	setDefaults(cfg)

	// 2. User config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
	}

	// 3. Project config file, or the one named by --config / TASKFLOW_CONFIG
	projectFile := fv.configFile
	if projectFile == "" {
		projectFile = os.Getenv("TASKFLOW_CONFIG")
	}
	if projectFile != "" {
		projectFile = absPath(projectFile, wd)
		if _, err := os.Stat(projectFile); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	} else {
		projectFile = findProjectConfigFile(wd)
	}
	if projectFile != "" {
		if err := loadConfigFile(cfg, projectFile, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
	}

	// 4. Env file
	envFile := fv.envFile
	if envFile == "" {
		envFile = os.Getenv("TASKFLOW_ENV_FILE")
	}
	if envFile != "" {
		envFile = absPath(envFile, wd)
		lookup, err := readEnvFile(envFile)
		if err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
		if err := loadFromEnv(cfg, lookup, SourceEnvFile); err != nil {
			return nil, fmt.Errorf("env file %s: %w", envFile, err)
		}
		cfg.Files = append(cfg.Files, envFile)
	}

	// 5. Environment
	if err := loadFromEnv(cfg, os.LookupEnv, SourceEnv); err != nil {
		return nil, err
	}

	// 6. Flags
	applyFlags(cfg, fv, set)

	// 7. Derived values
	if err := finalizeConfig(cfg, wd); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// loadConfigFile decodes a TOML file over cfg and records which keys it set.
func loadConfigFile(cfg *Config, path string, source Source) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	for _, key := range Keys() {
		if md.IsDefined(key) {
			cfg.Sources[key] = source
		}
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig normalizes values, resolves paths and validates.
func finalizeConfig(cfg *Config, wd string) error {
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.DataDir = absPath(cfg.DataDir, wd)
	cfg.LogDir = absPath(cfg.LogDir, wd)
	return cfg.Validate()
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageFile, StorageRedis:
	default:
		return fmt.Errorf("storage: unknown backend %q (expected memory|file|redis)", c.Storage)
	}
	if c.Storage == StorageFile && c.DataDir == "" {
		return fmt.Errorf("data_dir: required for the file backend")
	}
	if c.Storage == StorageRedis && c.RedisAddr == "" {
		return fmt.Errorf("redis_addr: required for the redis backend")
	}
	if c.StorageKey == "" {
		return fmt.Errorf("storage_key: must not be empty")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("redis_db: must not be negative")
	}
	if c.NotifySeconds <= 0 {
		return fmt.Errorf("notify_seconds: must be positive")
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("log_format: unknown format %q", c.LogFormat)
	}
	return nil
}

// Scope names the task list the config points at. Run logs are grouped by it.
func (c *Config) Scope() string {
	switch c.Storage {
	case StorageRedis:
		return fmt.Sprintf("%s/%d/%s", c.RedisAddr, c.RedisDB, c.StorageKey)
	case StorageMemory:
		return "memory/" + c.StorageKey
	default:
		return filepath.Join(c.DataDir, c.StorageKey)
	}
}
