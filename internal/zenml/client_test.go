package zenml

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenml-io/mcp-zenml/internal/config"
)

// fakeServer is a minimal ZenML API fixture: login endpoint plus whatever
// routes the individual test installs.
func fakeServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostFormValue("password") != "valid-key" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"detail": "invalid API key"}`)
			return
		}
		fmt.Fprint(w, `{"access_token": "tok-1"}`)
	})
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), config.StoreConfig{
		URL:    srv.URL,
		APIKey: "valid-key",
	})
	require.NoError(t, err)
	return c
}

func TestNewClient_MissingConfig(t *testing.T) {
	_, err := NewClient(context.Background(), config.StoreConfig{APIKey: "k"})
	assert.ErrorIs(t, err, ErrMissingStoreURL)

	_, err = NewClient(context.Background(), config.StoreConfig{URL: "http://localhost"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_BadAPIKey(t *testing.T) {
	srv := fakeServer(t, nil)

	_, err := NewClient(context.Background(), config.StoreConfig{URL: srv.URL, APIKey: "wrong"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Message, "invalid API key")
}

func TestClient_RefreshesTokenOnceOn401(t *testing.T) {
	var logins, calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		n := logins.Add(1)
		fmt.Fprintf(w, `{"access_token": "tok-%d"}`, n)
	})
	mux.HandleFunc("GET /api/v1/users", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer tok-2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"items": [], "total": 0}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), config.StoreConfig{URL: srv.URL, APIKey: "k"})
	require.NoError(t, err)

	_, err = c.ListResource(context.Background(), ResourceUsers, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, int32(2), logins.Load(), "expected exactly one re-login")
	assert.Equal(t, int32(2), calls.Load(), "expected exactly one retry of the request")
}

func TestGetResource_ByUUID(t *testing.T) {
	id := "0e2f4b7a-1234-4cde-8f90-abcdef012345"
	srv := fakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/stacks/" + id: func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{"id": %q, "name": "default"}`, id)
		},
	})
	c := newTestClient(t, srv)

	raw, err := c.GetResource(context.Background(), ResourceStacks, id, nil)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "default")
}

func TestGetResource_NameResolution(t *testing.T) {
	tests := []struct {
		name        string
		equalsTotal int
		prefixTotal int
		wantErr     string
	}{
		{name: "exact match", equalsTotal: 1},
		{name: "prefix fallback", equalsTotal: 0, prefixTotal: 1},
		{name: "no match", equalsTotal: 0, prefixTotal: 0, wantErr: "not found"},
		{name: "ambiguous", equalsTotal: 0, prefixTotal: 3, wantErr: "matches 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeServer(t, map[string]http.HandlerFunc{
				"GET /api/v1/pipelines": func(w http.ResponseWriter, r *http.Request) {
					total := tt.equalsTotal
					if r.URL.Query().Get("name") == "startswith:train" {
						total = tt.prefixTotal
					}
					items := `[]`
					if total >= 1 {
						items = `[{"id": "p-1", "name": "training"}]`
					}
					fmt.Fprintf(w, `{"items": %s, "total": %d}`, items, total)
				},
			})
			c := newTestClient(t, srv)

			raw, err := c.GetResource(context.Background(), ResourcePipelines, "train", nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, string(raw), "training")
		})
	}
}

func TestGetResource_NotFoundIsTyped(t *testing.T) {
	srv := fakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/models": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": [], "total": 0}`)
		},
	})
	c := newTestClient(t, srv)

	_, err := c.GetResource(context.Background(), ResourceModels, "ghost", nil)
	assert.True(t, IsNotFound(err))
}

func TestListResource_PassesFiltersThrough(t *testing.T) {
	var got url.Values
	srv := fakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/runs": func(w http.ResponseWriter, r *http.Request) {
			got = r.URL.Query()
			fmt.Fprint(w, `{"items": [], "total": 0}`)
		},
	})
	c := newTestClient(t, srv)

	filters := url.Values{}
	filters.Set("status", "failed")
	_, err := c.ListResource(context.Background(), ResourceRuns, ListOptions{
		SortBy:  "desc:created",
		Page:    2,
		Size:    10,
		Project: "proj-1",
		Filters: filters,
	})
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Get("status"))
	assert.Equal(t, "desc:created", got.Get("sort_by"))
	assert.Equal(t, "2", got.Get("page"))
	assert.Equal(t, "10", got.Get("size"))
	assert.Equal(t, "proj-1", got.Get("project"))
}

func TestProjectScope(t *testing.T) {
	c := &Client{activeProject: "active-proj"}

	scope, err := c.ProjectScope("explicit")
	require.NoError(t, err)
	assert.Equal(t, "explicit", scope)

	scope, err = c.ProjectScope("")
	require.NoError(t, err)
	assert.Equal(t, "active-proj", scope)

	empty := &Client{}
	_, err = empty.ProjectScope("")
	assert.ErrorIs(t, err, ErrNoActiveProject)
}

func TestDecodeLogLines(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain string", `"line one\nline two\n"`, []string{"line one", "line two"}},
		{"string array", `["a", "b"]`, []string{"a", "b"}},
		{"object array", `[{"message": "x"}]`, []string{`{"message": "x"}`}},
		{"empty string", `""`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := decodeLogLines(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, lines)
		})
	}
}

func TestTriggerPipeline_PostsBody(t *testing.T) {
	var body map[string]string
	srv := fakeServer(t, map[string]http.HandlerFunc{
		"GET /api/v1/pipelines": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": [{"id": "pipe-1", "name": "training"}], "total": 1}`)
		},
		"POST /api/v1/pipelines/pipe-1/trigger": func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			fmt.Fprint(w, `{"id": "run-1", "status": "running"}`)
		},
	})
	c := newTestClient(t, srv)

	raw, err := c.TriggerPipeline(context.Background(), TriggerOptions{
		PipelineNameOrID: "training",
		SnapshotNameOrID: "snap-1",
	})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "run-1")
	assert.Equal(t, map[string]string{"snapshot_name_or_id": "snap-1"}, body)
}
