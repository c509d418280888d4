// Package catalog loads the ordered zone catalog from a YAML file or from
// the copy bundled into the binary, and writes catalogs back to disk.
package catalog
