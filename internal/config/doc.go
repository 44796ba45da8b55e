// Package config loads the Frame client configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/frame/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. FRAME_API_URL, FRAME_LOG_LEVEL and FRAME_SESSION_PATH override the file
//
// A .env file in the working directory is loaded by the CLI before Load runs,
// so the overrides can live there too.
//
// # TOML Format
//
//	api_url = "http://127.0.0.1:8080"
//	request_timeout = "30s"
//	refresh_interval = "60s"   # "0" disables background refresh
//	rollback_on_failure = true
//	log_file = "~/.local/state/frame/frame.log"
//	log_level = "info"
//	session_path = "~/.local/state/frame/session.toml"
//
// Every field is optional. Tilde expansion is performed for paths.
//
// # Error Handling
//
// Load returns errors for unreadable files, TOML parse errors and invalid or
// negative durations. A missing file is not an error.
package config
