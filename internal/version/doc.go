// Package version exposes build metadata for zone-server and zonecalc.
//
// Version, Commit and BuildTime are injected with -ldflags -X at build time.
// Local builds fall back to the module version recorded by the Go toolchain.
package version
