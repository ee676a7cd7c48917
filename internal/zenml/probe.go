package zenml

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ServerInfo holds the unauthenticated identity of a ZenML server. Used by
// setup diagnostics, which must work before (and without) a constructed
// client.
type ServerInfo struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// ProbeServer checks reachability of a ZenML server without credentials by
// hitting the public info endpoint. It is deliberately a free function: the
// diagnostics tool calls it even when client construction is impossible.
func ProbeServer(ctx context.Context, storeURL string) (*ServerInfo, error) {
	base := strings.TrimRight(storeURL, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+apiPrefix+"/info", nil)
	if err != nil {
		return nil, fmt.Errorf("building probe request: %w", err)
	}

	httpc := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probing ZenML server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading probe response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var info ServerInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decoding server info: %w", err)
	}
	return &info, nil
}
