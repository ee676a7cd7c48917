// Package server exposes the operation catalog over the Model Context
// Protocol: descriptor argument specs become tool input schemas, dispatch
// results become protocol content (structured error envelopes on failure),
// and the configured transport (stdio, SSE, or streamable HTTP) carries the
// frames.
package server
