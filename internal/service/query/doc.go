// Package query implements the one-shot zonecalc commands: current zone,
// forecast, zone lookup, catalog listing and export. Results are rendered as
// text, JSON or YAML.
package query
