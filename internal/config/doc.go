// Package config loads, normalizes, and validates arteria configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// ARTERIA_GRACE_MINUTES. The Config type centralizes every knob the CLI needs
// to validate runfolders: the completion marker grace period, the instrument
// resolver, the history database location and logging output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config
