// Package config loads, normalizes, and validates lingoz configuration.
//
// Settings start from Default, are overlaid by an optional TOML file and then
// by LINGOZ_* environment variables, and are finally normalized and checked
// with struct-tag validation.
package config
