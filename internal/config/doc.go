// Package config provides configuration structures and utilities for
// backlinkscan. It defines the options of a verification run, their
// defaults and validation, and loading from a YAML file and .env.
package config
