// Package common contains helpers shared by the zone binaries, most notably
// the gRPC client that talks to zone-server and converts responses back to
// domain types.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
