// Package config handles configuration loading and management for apitestc.
//
// It provides functionality for:
//   - Loading configuration from .apitestc.yaml or .apitestc.json files
//   - Schema validation of the loaded document
//   - Default configuration values
//   - Environment variable overrides
package config
