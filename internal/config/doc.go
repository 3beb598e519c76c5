// Package config loads, normalizes, and validates moviedeck configuration.
//
// Values come from repository defaults, then an optional TOML file
// (./moviedeck.toml or ~/.config/moviedeck/config.toml), then environment
// fallbacks such as PORT, DB_PATH and MOVIES_API_URL.
package config
