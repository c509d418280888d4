// Package telemetry holds the Prometheus collectors of the zone server and
// the HTTP middleware and gRPC interceptor that feed them.
package telemetry
