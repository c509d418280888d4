// Package integration runs zone-server end to end and drives it through the
// gRPC client, the HTTP API, the calculator and the watcher.
package integration
