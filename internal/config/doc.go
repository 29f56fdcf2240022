// Package config loads and merges breakcheck configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (BREAKCHECK_MODEL, BREAKCHECK_FORMAT, etc.),
//     optionally seeded from a .env file
//  3. Config file ($XDG_CONFIG_HOME/breakcheck/config.yaml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write the config file,
// and [SetField] to update a single key. The API key lives in [Credentials]
// and never enters the config file.
package config
