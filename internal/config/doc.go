// Package config loads, validates and saves the YAML settings shared by
// zone-server and zonecalc: server addresses, the catalog file, the search
// horizon, watcher cadence, tracked zones and log level.
package config
