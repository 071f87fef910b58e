package config

import (
	"fmt"
	"strconv"
	"strings"
)

// envPrefix is prepended to the upper-cased field key to form the variable name.
const envPrefix = "TASKFLOW_"

// flagKeys maps CLI flag names to field keys.
var flagKeys = map[string]string{
	"storage":        "storage",
	"data-dir":       "data_dir",
	"key":            "storage_key",
	"redis-addr":     "redis_addr",
	"redis-db":       "redis_db",
	"listen":         "listen_addr",
	"notify-seconds": "notify_seconds",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// EnvName returns the environment variable for a field key.
func EnvName(key string) string {
	return envPrefix + strings.ToUpper(key)
}

// field returns a pointer to the field for key, or nil.
func (c *Config) field(key string) any {
	switch key {
	case "storage":
		return &c.Storage
	case "data_dir":
		return &c.DataDir
	case "storage_key":
		return &c.StorageKey
	case "redis_addr":
		return &c.RedisAddr
	case "redis_db":
		return &c.RedisDB
	case "listen_addr":
		return &c.ListenAddr
	case "notify_seconds":
		return &c.NotifySeconds
	case "log_dir":
		return &c.LogDir
	case "log_level":
		return &c.LogLevel
	case "log_format":
		return &c.LogFormat
	case "log_timestamps":
		return &c.LogTimestamps
	case "log_caller":
		return &c.LogCaller
	}
	return nil
}

// Value returns the value of key formatted for display.
func (c *Config) Value(key string) string {
	switch v := c.field(key).(type) {
	case *string:
		return *v
	case *int:
		return strconv.Itoa(*v)
	case *bool:
		return strconv.FormatBool(*v)
	}
	return ""
}

// setString parses s into the field for key.
func (c *Config) setString(key, s string) error {
	switch v := c.field(key).(type) {
	case *string:
		*v = s
	case *int:
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		*v = n
	case *bool:
		*v = boolFromString(s)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// copyField copies the field for key from src.
func (c *Config) copyField(key string, src *Config) {
	switch v := c.field(key).(type) {
	case *string:
		*v = *src.field(key).(*string)
	case *int:
		*v = *src.field(key).(*int)
	case *bool:
		*v = *src.field(key).(*bool)
	}
}

func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
