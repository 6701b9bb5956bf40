// Package config loads the knobs project configuration.
//
// A project is configured by a knobs.json or knobs.yaml file at its
// root; JSON wins when both exist. Every field has a default, and a
// directory without a config file yields the default configuration
// rather than an error. The loader validates the listen address, the
// upload size cap, and the S3 settings, and CheckVersion enforces the
// project's minVersion against the running CLI.
package config
