// Package config loads and merges hoodscan configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (HOODSCAN_PROVIDER, HOODSCAN_MODEL,
//     HOODSCAN_THREAD_URL, HOODSCAN_DATA_DIR, HOODSCAN_FORMAT, etc.)
//  3. Config file ($XDG_CONFIG_HOME/hoodscan/config.yaml, or --config)
//  4. Built-in defaults
//
// The file is YAML and may carry its own neighborhood alias table. Provider
// credentials are never stored here; they come from the provider's own
// environment variables.
//
// Use [Load] to obtain a merged [Config], [Save] to write one, and
// [SetField] to update a single dotted key.
package config
