package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenml-io/mcp-zenml/internal/config"
	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

// newEnv builds a dispatcher wired to a fake ZenML server with the given
// routes. The login endpoint is always installed.
func newEnv(t *testing.T, cfg *config.Config, routes map[string]http.HandlerFunc) *dispatch.Dispatcher {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token": "tok"}`)
	})
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	if cfg == nil {
		defaults := config.GetDefaultConfig()
		cfg = &defaults
	}
	cfg.Store.URL = srv.URL
	cfg.Store.APIKey = "key"

	reg := dispatch.NewRegistry()
	require.NoError(t, Register(reg, zenml.NewHolder(cfg.Store), cfg))
	return dispatch.NewDispatcher(reg)
}

func TestRegister_Catalog(t *testing.T) {
	reg := dispatch.NewRegistry()
	cfg := config.GetDefaultConfig()
	require.NoError(t, Register(reg, zenml.NewHolder(cfg.Store), &cfg))

	assert.GreaterOrEqual(t, reg.Len(), 45, "catalog should cover the full operation surface")
	for _, name := range []string{
		"list_users", "get_user", "get_active_user",
		"get_active_project", "get_stack", "list_pipelines",
		"get_pipeline_details", "trigger_pipeline", "get_snapshot",
		"get_run_template", "get_deployment_logs", "get_step_logs",
		"get_model_version", "list_secrets", "diagnose_setup",
	} {
		_, err := reg.Get(name)
		assert.NoError(t, err, name)
	}

	// Registering twice must trip duplicate detection.
	err := Register(reg, zenml.NewHolder(cfg.Store), &cfg)
	var dup *dispatch.DuplicateOperationError
	assert.ErrorAs(t, err, &dup)
}

func TestDispatch_GetUserSuccess(t *testing.T) {
	d := newEnv(t, nil, map[string]http.HandlerFunc{
		"GET /api/v1/users": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "equals:alice", r.URL.Query().Get("name"))
			fmt.Fprint(w, `{"items": [{"id": "u-1", "name": "alice"}], "total": 1}`)
		},
	})

	result := d.Dispatch(context.Background(), "get_user", map[string]any{
		"name_id_or_prefix": "alice",
	})
	require.True(t, result.OK(), result.Message)

	payload, err := json.Marshal(result.Payload)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "alice")
}

func TestDispatch_TriggerExclusivity(t *testing.T) {
	var triggered bool
	routes := map[string]http.HandlerFunc{
		"GET /api/v1/pipelines": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": [{"id": "pipe-1", "name": "training"}], "total": 1}`)
		},
		"POST /api/v1/pipelines/pipe-1/trigger": func(w http.ResponseWriter, r *http.Request) {
			triggered = true
			fmt.Fprint(w, `{"id": "run-1"}`)
		},
	}

	t.Run("both sources rejected", func(t *testing.T) {
		d := newEnv(t, nil, routes)
		result := d.Dispatch(context.Background(), "trigger_pipeline", map[string]any{
			"pipeline_name_or_id": "training",
			"snapshot_name_or_id": "snap-1",
			"template_id":         "tmpl-1",
		})
		assert.Equal(t, dispatch.KindValidationError, result.Kind)
		assert.Contains(t, result.Message, "not both")
		assert.False(t, triggered)
	})

	t.Run("neither source rejected by default", func(t *testing.T) {
		d := newEnv(t, nil, routes)
		result := d.Dispatch(context.Background(), "trigger_pipeline", map[string]any{
			"pipeline_name_or_id": "training",
		})
		assert.Equal(t, dispatch.KindValidationError, result.Kind)
		assert.Contains(t, result.Message, "exactly one of snapshot or template must be provided")
		assert.False(t, triggered)
	})

	t.Run("neither source allowed when configured", func(t *testing.T) {
		cfg := config.GetDefaultConfig()
		cfg.Trigger.DefaultToLatest = true
		d := newEnv(t, &cfg, routes)
		result := d.Dispatch(context.Background(), "trigger_pipeline", map[string]any{
			"pipeline_name_or_id": "training",
		})
		require.True(t, result.OK(), result.Message)
		assert.True(t, triggered)
	})

	t.Run("snapshot source succeeds", func(t *testing.T) {
		d := newEnv(t, nil, routes)
		result := d.Dispatch(context.Background(), "trigger_pipeline", map[string]any{
			"pipeline_name_or_id": "training",
			"snapshot_name_or_id": "snap-1",
		})
		require.True(t, result.OK(), result.Message)
	})
}

func TestDispatch_DeploymentLogsBounded(t *testing.T) {
	lines := make([]string, 2000)
	for i := range lines {
		lines[i] = fmt.Sprintf("log line %d", i)
	}
	encoded, err := json.Marshal(lines)
	require.NoError(t, err)

	cfg := config.GetDefaultConfig()
	cfg.Store.ActiveProjectID = "proj-1"
	d := newEnv(t, &cfg, map[string]http.HandlerFunc{
		"GET /api/v1/deployments": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": [{"id": "dep-1", "name": "serving"}], "total": 1}`)
		},
		"GET /api/v1/deployments/dep-1/logs": func(w http.ResponseWriter, r *http.Request) {
			w.Write(encoded)
		},
	})

	result := d.Dispatch(context.Background(), "get_deployment_logs", map[string]any{
		"name_id_or_prefix": "serving",
		"tail":              5000.0,
	})
	require.True(t, result.OK(), result.Message)

	envelope, ok := result.Payload.(map[string]any)
	require.True(t, ok)
	assert.LessOrEqual(t, envelope["line_count"].(int), dispatch.MaxLogTail)
	assert.Equal(t, true, envelope["truncated"])
	assert.Equal(t, dispatch.MaxLogTail, envelope["tail_effective"])
}

func TestDispatch_RemoteUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens anymore

	cfg := config.GetDefaultConfig()
	cfg.Store.URL = srv.URL
	cfg.Store.APIKey = "key"
	reg := dispatch.NewRegistry()
	require.NoError(t, Register(reg, zenml.NewHolder(cfg.Store), &cfg))
	d := dispatch.NewDispatcher(reg)

	result := d.Dispatch(context.Background(), "get_stack", map[string]any{
		"name_id_or_prefix": "default",
	})
	assert.Equal(t, dispatch.KindRemoteUnavailable, result.Kind)
	assert.NotContains(t, result.Message, "goroutine", "payload must not carry stack traces")
}

func TestDispatch_DeprecatedMirrorsReplacement(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Store.ActiveProjectID = "proj-1"
	routes := map[string]http.HandlerFunc{
		"GET /api/v1/pipeline_snapshots": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": [{"id": "s-1", "name": "nightly"}], "total": 1}`)
		},
		"GET /api/v1/run_templates": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": [{"id": "t-1", "name": "nightly"}], "total": 1}`)
		},
	}
	d := newEnv(t, &cfg, routes)

	modern := d.Dispatch(context.Background(), "get_snapshot", map[string]any{
		"name_id_or_prefix": "nightly",
	})
	deprecated := d.Dispatch(context.Background(), "get_run_template", map[string]any{
		"name_id_or_prefix": "nightly",
	})

	require.True(t, modern.OK(), modern.Message)
	require.True(t, deprecated.OK(), deprecated.Message)
	assert.Empty(t, modern.Deprecation)
	assert.Contains(t, deprecated.Deprecation, "get_snapshot",
		"deprecated result must point at the replacement")
}

func TestDispatch_DiagnoseSetupWithoutClient(t *testing.T) {
	cfg := config.GetDefaultConfig()
	reg := dispatch.NewRegistry()
	require.NoError(t, Register(reg, zenml.NewHolder(cfg.Store), &cfg))
	d := dispatch.NewDispatcher(reg)

	result := d.Dispatch(context.Background(), "diagnose_setup", nil)
	require.True(t, result.OK(), "diagnostics must succeed even when nothing is configured")

	report, ok := result.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "issues_found", report["status"])
	assert.Equal(t, false, report["store_url_set"])
	assert.NotEmpty(t, report["issues"])
}

func TestDispatch_TriggerTemplateCarriesDeprecation(t *testing.T) {
	routes := map[string]http.HandlerFunc{
		"GET /api/v1/pipelines": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items": [{"id": "pipe-1", "name": "training"}], "total": 1}`)
		},
		"POST /api/v1/pipelines/pipe-1/trigger": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id": "run-1"}`)
		},
	}
	d := newEnv(t, nil, routes)

	viaSnapshot := d.Dispatch(context.Background(), "trigger_pipeline", map[string]any{
		"pipeline_name_or_id": "training",
		"snapshot_name_or_id": "snap-1",
	})
	viaTemplate := d.Dispatch(context.Background(), "trigger_pipeline", map[string]any{
		"pipeline_name_or_id": "training",
		"template_id":         "tmpl-1",
	})

	require.True(t, viaSnapshot.OK(), viaSnapshot.Message)
	require.True(t, viaTemplate.OK(), viaTemplate.Message)

	// The template path differs from the snapshot path only by the notice.
	assert.Empty(t, viaSnapshot.Deprecation)
	assert.Contains(t, viaTemplate.Deprecation, "snapshot_name_or_id")

	snapPayload, err := json.Marshal(viaSnapshot.Payload)
	require.NoError(t, err)
	tmplPayload, err := json.Marshal(viaTemplate.Payload)
	require.NoError(t, err)
	assert.JSONEq(t, string(snapPayload), string(tmplPayload))
}

func TestDispatch_StepLogsReportOversizedTail(t *testing.T) {
	// The remote returns fewer lines than the ceiling; the clamp must still be
	// surfaced because the caller asked for more than the policy allows.
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("step log %d", i)
	}
	encoded, err := json.Marshal(lines)
	require.NoError(t, err)

	d := newEnv(t, nil, map[string]http.HandlerFunc{
		"GET /api/v1/steps/step-1/logs": func(w http.ResponseWriter, r *http.Request) {
			w.Write(encoded)
		},
	})

	result := d.Dispatch(context.Background(), "get_step_logs", map[string]any{
		"step_run_id": "step-1",
		"tail":        5000.0,
	})
	require.True(t, result.OK(), result.Message)

	envelope, ok := result.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 10, envelope["line_count"])
	assert.Equal(t, true, envelope["truncated"])
	assert.Equal(t, dispatch.MaxLogTail, envelope["tail_effective"])
	assert.Contains(t, envelope["truncation_message"], "hard limit")
}
