// Package config defines the harness configuration and loads it from layered
// sources: built-in defaults, an optional HCL file, then MAZEHARNESS_*
// environment variables (optionally seeded from a .env file). Command-line
// flags are applied last by the cli package.
//
// HCL files are evaluated with an `env` object, so values may reference the
// process environment:
//
//	artifacts_dir = "${env.HOME}/maze-artifacts"
//
//	probe {
//	  timeout_ms = 1500
//	}
package config
