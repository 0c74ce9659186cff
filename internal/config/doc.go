// Package config provides configuration structures and utilities for iiif2neon.
// It defines the options of a conversion run, populated from CLI flags, and
// the optional YAML file holding proxy settings and per-host headers.
package config
