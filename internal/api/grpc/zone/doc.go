// Package zone implements the gRPC transport for the zone rotation service.
//
// It validates requests, resolves the reference time, calls into a provided
// business-service interface and maps domain errors to gRPC status codes.
package zone
