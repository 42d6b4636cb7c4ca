// Package config manages user-level settings stored at ~/.wheelhouse/config.yaml.
// Every key can be overridden with a WHEELHOUSE_-prefixed environment variable,
// e.g. WHEELHOUSE_INDEX_URL or WHEELHOUSE_ONLINE_ACCESS=false.
package config
