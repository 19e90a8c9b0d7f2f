// Package config handles configuration management for megfile.
// It supports loading configuration from multiple sources including
// TOML and YAML files and environment variables.
package config
