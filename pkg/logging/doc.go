// Package logging provides structured diagnostic logging for the ZenML MCP
// server, built on Go's standard slog package.
//
// All log output goes to the diagnostic channel (stderr by default). The
// primary output channel (stdout under the stdio transport) is reserved for
// protocol-formatted responses and must never receive log bytes. Credential
// values must never be logged; store URLs are redacted to scheme and host
// before they reach this package.
//
// Entries carry a subsystem identifier ("Dispatcher", "ZenMLClient",
// "Server", ...) so operators can filter the stream, plus an optional error.
// The minimum level is taken from the LOGLEVEL environment variable at
// startup and only affects this channel, never protocol responses.
package logging
