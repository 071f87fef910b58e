// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.taskflow/taskflow.toml or OS-specific config directory)
// 3. Project config file (taskflow.toml or .taskflow.toml in the working
//    directory, or the file named by --config)
// 4. Env file (--env-file or TASKFLOW_ENV_FILE, dotenv syntax)
// 5. Environment variables (TASKFLOW_*)
// 6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence. Values
// from the env file never override variables already set in the environment.
//
// User-level config locations:
// - ~/.taskflow/taskflow.toml (preferred)
// - Windows: %APPDATA%\taskflow\taskflow.toml
// - macOS: ~/Library/Application Support/taskflow/taskflow.toml
// - Linux/BSD: $XDG_CONFIG_HOME/taskflow/taskflow.toml or ~/.config/taskflow/taskflow.toml
package config
