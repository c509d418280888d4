// Package wire defines the ZoneService gRPC contract: request and response
// messages, the service descriptor with its client and server bindings, and
// the CBOR codec both ends use instead of protobuf.
//
// Messages use small integer map keys so the encoding stays compact and
// field names can change without breaking deployed clients. Importing the
// package registers the codec with grpc under the "cbor" content subtype.
package wire
