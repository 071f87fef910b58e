package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# TaskFlow configuration file
# Values can be overridden by TASKFLOW_* environment variables or CLI flags

# Storage backend: memory, file, or redis
storage = "file"

# Directory for the file backend (supports ~ expansion and %VAR% on Windows)
data_dir = "~/.taskflow/data"

# Key the task list is stored under
storage_key = "taskflow-tasks"

# Redis backend
redis_addr = "localhost:6379"
redis_db = 0

# Listen address for "taskflow serve"
listen_addr = ":8080"

# Seconds a notification stays visible in the terminal UI
notify_seconds = 3

# Logging
log_dir = "~/.taskflow/logs"
log_level = "info"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
