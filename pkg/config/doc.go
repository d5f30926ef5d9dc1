// Package config loads the tool's own settings.
//
// Settings are layered, later layers winning:
//
//  1. embedded/defaults.toml
//  2. $XDG_CONFIG_HOME/activate/config.toml, when present
//  3. ACTIVATE_* environment variables (ACTIVATE_WORKERS, ACTIVATE_ARTIFACTS_JSON, ...)
//
// Environment declarations (activate.toml) are not settings; see package
// environments.
package config
