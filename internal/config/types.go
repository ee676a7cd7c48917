package config

// Environment variables read at client construction time. These names match
// the ZenML server's own conventions so a working `zenml login` environment
// carries over unchanged.
const (
	EnvStoreURL        = "ZENML_STORE_URL"
	EnvStoreAPIKey     = "ZENML_STORE_API_KEY"
	EnvActiveProjectID = "ZENML_ACTIVE_PROJECT_ID"
	EnvLogLevel        = "LOGLEVEL"
)

const (
	// MCPTransportStdio is the standard I/O transport (default).
	MCPTransportStdio = "stdio"
	// MCPTransportSSE is the Server-Sent Events transport.
	MCPTransportSSE = "sse"
	// MCPTransportStreamableHTTP is the streamable HTTP transport.
	MCPTransportStreamableHTTP = "streamable-http"
)

// Config is the top-level configuration for the ZenML MCP server.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Trigger TriggerConfig `yaml:"trigger"`
}

// StoreConfig describes how to reach the remote ZenML server. URL and APIKey
// are required for any operation that touches the remote API; their absence
// is a configuration error surfaced per operation, not a process crash.
type StoreConfig struct {
	URL             string `yaml:"url,omitempty"`
	APIKey          string `yaml:"apiKey,omitempty"`
	ActiveProjectID string `yaml:"activeProjectId,omitempty"`
}

// ServerConfig defines how the MCP surface is exposed.
type ServerConfig struct {
	Transport string `yaml:"transport,omitempty"` // stdio, sse or streamable-http (default: stdio)
	Host      string `yaml:"host,omitempty"`      // Host to bind for network transports (default: localhost)
	Port      int    `yaml:"port,omitempty"`      // Port for network transports (default: 8080)
}

// TriggerConfig controls trigger_pipeline argument resolution.
type TriggerConfig struct {
	// DefaultToLatest permits trigger_pipeline calls that name neither a
	// snapshot nor a template; the remote server then resolves the latest
	// runnable snapshot. Disabled by default: without it, supplying exactly
	// one of the two identifiers is required.
	DefaultToLatest bool `yaml:"defaultToLatest,omitempty"`
}

// HasStoreURL reports whether the remote store URL is configured.
func (s StoreConfig) HasStoreURL() bool { return s.URL != "" }

// HasAPIKey reports whether the remote API credential is configured.
func (s StoreConfig) HasAPIKey() bool { return s.APIKey != "" }
