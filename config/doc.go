// Package config handles application configuration loading and validation.
//
// Configuration is read from an optional YAML file over built-in defaults and
// validated using struct tags. Command-line flags are applied by the caller
// after loading, so a flag always wins over the file.
package config
