// Package config loads, normalizes, and validates stagehand configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and centralizes every knob the CLI and harvest
// code need: staging directories, the remote worker endpoint, action-mapping
// path rules, and the cleanup policy.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
