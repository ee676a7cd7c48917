// Package zenml implements the REST client for a remote ZenML server and the
// holder that governs its lazy, exactly-once construction.
//
// The client is deliberately thin: it authenticates (API key exchanged for a
// short-lived access token), resolves name-or-ID references, and returns
// remote payloads as opaque json.RawMessage. Interpretation, argument
// validation, error classification, and output bounding all live above it.
package zenml
