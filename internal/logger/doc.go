// Package logger wraps zap with a global sugared logger and context helpers.
//
// Services receive a context, name it with WithName, attach fields with WithKV
// and log through the package-level helpers (Info, InfoKV, ErrorKV, ...), which
// pick the logger from the context and fall back to the global one.
// Setup applies the level chosen on the command line.
package logger
