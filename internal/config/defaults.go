package config

// GetDefaultConfig returns the default configuration for the ZenML MCP server.
func GetDefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Transport: MCPTransportStdio,
			Host:      "localhost",
			Port:      8080,
		},
	}
}
