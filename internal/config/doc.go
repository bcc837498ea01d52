// Package config loads, normalizes, and validates candela configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and turns backend names into validated
// tags. Always obtain settings through this package so downstream code
// receives canonical log formats and a vetted backend list.
package config
