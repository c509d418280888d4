// Package zone exposes the zone rotation queries as a read-only JSON API on
// a chi router, next to the Prometheus metrics endpoint.
package zone
