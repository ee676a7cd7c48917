// Package config loads the ZenML MCP server configuration.
//
// Connection settings (store URL, API key, active project) come from the
// standard ZenML environment variables and are read once when the shared
// remote client is constructed. An optional config.yaml can preconfigure the
// MCP transport and trigger policy; environment variables always take
// precedence over file values.
package config
