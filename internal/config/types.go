package config

// Source represents where a configuration value came from.
type Source string

const (
	SourceDefault  Source = "default"
	SourceUserFile Source = "user file"
	SourceProjFile Source = "project file"
	SourceEnvFile  Source = "env file"
	SourceEnv      Source = "environment"
	SourceFlag     Source = "flag"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

// Defaults.
const (
	DefaultStorage       = StorageFile
	DefaultDataDir       = "~/.taskflow/data"
	DefaultStorageKey    = "taskflow-tasks"
	DefaultRedisAddr     = "localhost:6379"
	DefaultListenAddr    = ":8080"
	DefaultNotifySeconds = 3
	DefaultLogDir        = "~/.taskflow/logs"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config holds the resolved configuration.
type Config struct {
	// Storage
	Storage    string `toml:"storage"`
	DataDir    string `toml:"data_dir"`
	StorageKey string `toml:"storage_key"`
	RedisAddr  string `toml:"redis_addr"`
	RedisDB    int    `toml:"redis_db"`

	// HTTP
	ListenAddr string `toml:"listen_addr"`

	// UI
	NotifySeconds int `toml:"notify_seconds"`

	// Logging
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Files is the list of config and env files that were read, in order.
	Files []string `toml:"-"`
	// Sources maps each field key to the layer that set it.
	Sources map[string]Source `toml:"-"`
}

// Keys returns the configurable field keys in display order.
func Keys() []string {
	return []string{
		"storage",
		"data_dir",
		"storage_key",
		"redis_addr",
		"redis_db",
		"listen_addr",
		"notify_seconds",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.Storage = DefaultStorage
	cfg.DataDir = DefaultDataDir
	cfg.StorageKey = DefaultStorageKey
	cfg.RedisAddr = DefaultRedisAddr
	cfg.RedisDB = 0
	cfg.ListenAddr = DefaultListenAddr
	cfg.NotifySeconds = DefaultNotifySeconds
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false

	cfg.Sources = make(map[string]Source, len(Keys()))
	for _, key := range Keys() {
		cfg.Sources[key] = SourceDefault
	}
}
