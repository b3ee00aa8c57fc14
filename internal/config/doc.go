// Package config loads and validates YAML configuration for the signal
// client daemon, with ${VAR} environment-variable expansion for
// credentials.
package config
