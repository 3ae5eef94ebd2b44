// Package config provides configuration structures and utilities for
// libscan. It defines the scan options (targets, allow-lists, skip
// suffixes), report preferences, and the optional .libscan YAML file with
// per-library settings.
package config
