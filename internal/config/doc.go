// Package config loads syncd configuration from YAML with ${VAR}
// environment expansion, applies defaults, and validates required fields.
package config
