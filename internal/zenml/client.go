package zenml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/zenml-io/mcp-zenml/internal/config"
	"github.com/zenml-io/mcp-zenml/pkg/logging"
)

const (
	apiPrefix = "/api/v1"

	// maxResponseBytes caps how much of a remote response body is read.
	// Remote payloads are opaque to the adapter; anything beyond this is a
	// misbehaving server, not data we can meaningfully relay.
	maxResponseBytes = 16 << 20

	requestTimeout = 30 * time.Second
)

// Client is the shared handle to the remote ZenML server. It authenticates
// with the configured API key, exchanging it for a short-lived access token
// via the login endpoint, and exposes the generic read/trigger surface the
// operation handlers are built on. Responses stay opaque json.RawMessage:
// the adapter shapes them, it never interprets them.
//
// The client performs no automatic retries. Transient remote failures are
// surfaced to the caller, who decides whether to retry.
type Client struct {
	baseURL       string
	apiKey        string
	activeProject string
	httpc         *http.Client

	tokenMu sync.Mutex
	token   string
}

// NewClient constructs a client from store configuration and verifies it by
// obtaining an access token. Missing required configuration fails with a
// configuration error before any network traffic.
func NewClient(ctx context.Context, store config.StoreConfig) (*Client, error) {
	if store.URL == "" {
		return nil, ErrMissingStoreURL
	}
	if store.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		baseURL:       strings.TrimRight(store.URL, "/"),
		apiKey:        store.APIKey,
		activeProject: store.ActiveProjectID,
		httpc:         &http.Client{Timeout: requestTimeout},
	}

	logging.Debug("ZenMLClient", "Connecting to ZenML server at %s", config.RedactURL(store.URL))
	if _, err := c.accessToken(ctx); err != nil {
		return nil, err
	}
	logging.Debug("ZenMLClient", "ZenML client initialized")
	return c, nil
}

// ActiveProjectID returns the configured active project, if any.
func (c *Client) ActiveProjectID() string { return c.activeProject }

// ProjectScope resolves the project to use for a project-scoped operation:
// the explicit argument when supplied, otherwise the configured active
// project. Returns ErrNoActiveProject when neither is available so the
// caller gets a descriptive configuration error rather than a generic
// remote failure.
func (c *Client) ProjectScope(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if c.activeProject != "" {
		return c.activeProject, nil
	}
	return "", ErrNoActiveProject
}

// accessToken returns the cached access token, logging in first if needed.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.login(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

// invalidateToken drops the cached access token so the next call logs in
// again. Called once when the server rejects a request with 401.
func (c *Client) invalidateToken() {
	c.tokenMu.Lock()
	c.token = ""
	c.tokenMu.Unlock()
}

// login exchanges the API key for a short-lived access token.
func (c *Client) login(ctx context.Context) (string, error) {
	form := url.Values{"password": {c.apiKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+apiPrefix+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("logging in to ZenML server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", newAPIError(resp.StatusCode, body)
	}

	var tokenData struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenData); err != nil || tokenData.AccessToken == "" {
		return "", fmt.Errorf("no access token in login response")
	}
	return tokenData.AccessToken, nil
}

// do issues one authenticated request against the ZenML API. A 401 response
// triggers exactly one re-login before the failure is surfaced; there are no
// other retries.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		token, err := c.accessToken(ctx)
		if err != nil {
			return nil, err
		}

		endpoint := c.baseURL + apiPrefix + path
		if len(query) > 0 {
			endpoint += "?" + query.Encode()
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return nil, fmt.Errorf("building request for %s: %w", path, err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return nil, fmt.Errorf("calling ZenML server: %w", err)
		}
		respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response for %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			c.invalidateToken()
			continue
		}
		if resp.StatusCode >= 400 {
			return nil, newAPIError(resp.StatusCode, respBody)
		}
		return json.RawMessage(respBody), nil
	}
}

// newAPIError extracts a short message from an error response body. ZenML
// returns {"detail": ...} envelopes; anything else is truncated raw text.
func newAPIError(status int, body []byte) *APIError {
	message := ""
	var envelope struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != nil {
		switch d := envelope.Detail.(type) {
		case string:
			message = d
		default:
			if encoded, err := json.Marshal(d); err == nil {
				message = string(encoded)
			}
		}
	} else if len(body) > 0 {
		message = string(body)
	}
	const maxMessage = 300
	if len(message) > maxMessage {
		message = message[:maxMessage]
	}
	return &APIError{Status: status, Message: message}
}
