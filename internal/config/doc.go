// Package config loads stormctl's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/stormctl/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # TOML Format
//
//	host = "localhost"
//	port = 8080
//	timeout_seconds = 5
//	poll_seconds = 2
//	resources_dir = "~/.local/share/stormctl/resources"
//	log_file = "~/.local/share/stormctl/stormctl.log"
//	log_level = "info"
//
// Every field is optional. Tilde expansion is applied to resources_dir and
// log_file. Missing config files are not an error.
//
// Command-line flags (--host, --port, --timeout) are applied by the caller on
// top of the loaded Config; this package never reads the environment.
package config
