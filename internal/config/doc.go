// Package config holds the runtime options of a filter invocation and the
// YAML configuration file with its profile registry.
package config
