package config

import (
	"flag"
)

// flagValues receives parsed flag values before they are layered on top.
type flagValues struct {
	cfg        Config
	configFile string
	envFile    string
}

// bindFlags defines the config flags on fs. Defaults shown in usage are
// the built-in defaults.
func bindFlags(fs *flag.FlagSet) *flagValues {
	fv := &flagValues{}
	setDefaults(&fv.cfg)
	c := &fv.cfg

	fs.StringVar(&fv.configFile, "config", "", "Config file (default: taskflow.toml in the working directory)")
	fs.StringVar(&fv.envFile, "env-file", "", "Dotenv file with TASKFLOW_* variables")

	// Storage
	fs.StringVar(&c.Storage, "storage", c.Storage, "Storage backend: memory, file, or redis")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "Directory for the file backend")
	fs.StringVar(&c.StorageKey, "key", c.StorageKey, "Key the task list is stored under")
	fs.StringVar(&c.RedisAddr, "redis-addr", c.RedisAddr, "Redis address for the redis backend")
	fs.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// HTTP
	fs.StringVar(&c.ListenAddr, "listen", c.ListenAddr, "HTTP listen address for serve")

	// UI
	fs.IntVar(&c.NotifySeconds, "notify-seconds", c.NotifySeconds, "Seconds a notification stays visible")

	// Logging
	fs.StringVar(&c.LogDir, "log-dir", c.LogDir, "Directory for interactive run logs")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "Log format: text, json, or logfmt")
	fs.BoolVar(&c.LogTimestamps, "log-timestamps", c.LogTimestamps, "Include timestamps in logs")
	fs.BoolVar(&c.LogCaller, "log-caller", c.LogCaller, "Include caller location in logs")

	return fv
}

// setFlags returns the names of flags explicitly set on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// applyFlags copies explicitly set flag values into cfg.
func applyFlags(cfg *Config, fv *flagValues, set map[string]bool) {
	for name, key := range flagKeys {
		if !set[name] {
			continue
		}
		cfg.copyField(key, &fv.cfg)
		cfg.Sources[key] = SourceFlag
	}
}
