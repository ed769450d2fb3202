// Package config loads application configuration from environment variables
// into tagged structs, with optional .env file support for local development.
//
// Configuration structs declare their environment bindings through `env` and
// `envDefault` field tags; Load parses the process environment into them and
// MustLoad panics on failure for configuration the application cannot start
// without. The first Load in a process also reads a .env file from the
// working directory when one exists, so development environments need no
// shell setup.
package config
