// Package config loads, normalizes, and validates photokeep configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the default config locations
// (~/.config/photokeep/config.toml, then ./photokeep.toml). The Config type
// centralizes every knob the CLI needs: backup volume and sources, rating
// sync directory conventions, stats scanning, history database, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized absolute paths and clear validation errors.
package config
