// Package config loads, decodes and validates application configuration
// from an optional config file and LANGTOOLS_-prefixed environment variables.
package config
