package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenml-io/mcp-zenml/internal/zenml"
	"github.com/zenml-io/mcp-zenml/pkg/logging"
)

func TestTranslate_Classification(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		err       error
		wantKind  Kind
		wantIn    string
	}{
		{
			name:     "nil error is success",
			err:      nil,
			wantKind: KindSuccess,
		},
		{
			name:     "typed not found",
			err:      &zenml.NotFoundError{Resource: "stacks", NameOrID: "prod"},
			wantKind: KindNotFound,
			wantIn:   "prod",
		},
		{
			name:     "ambiguous match is caller-fixable",
			err:      &zenml.AmbiguousMatchError{Resource: "models", NameOrID: "m", Count: 4},
			wantKind: KindValidationError,
		},
		{
			name:     "remote 401",
			err:      &zenml.APIError{Status: 401, Message: "token expired"},
			wantKind: KindAuthError,
		},
		{
			name:     "remote 403",
			err:      &zenml.APIError{Status: 403, Message: "no permission"},
			wantKind: KindAuthError,
		},
		{
			name:     "remote 404",
			err:      &zenml.APIError{Status: 404, Message: "gone"},
			wantKind: KindNotFound,
		},
		{
			name:      "remote 422 on a list operation gets filter help",
			operation: "list_pipeline_runs",
			err:       &zenml.APIError{Status: 422, Message: "invalid filter"},
			wantKind:  KindValidationError,
			wantIn:    "operator:value",
		},
		{
			name:     "remote 500",
			err:      &zenml.APIError{Status: 500, Message: "boom"},
			wantKind: KindRemoteUnavailable,
		},
		{
			name:     "missing store URL",
			err:      fmt.Errorf("constructing client: %w", zenml.ErrMissingStoreURL),
			wantKind: KindConfigurationError,
			wantIn:   "ZENML_STORE_URL",
		},
		{
			name:     "no active project",
			err:      zenml.ErrNoActiveProject,
			wantKind: KindConfigurationError,
		},
		{
			name:     "connection refused",
			err:      &url.Error{Op: "Get", URL: "http://zenml.internal", Err: errors.New("connection refused")},
			wantKind: KindRemoteUnavailable,
			wantIn:   "unreachable",
		},
		{
			name:     "deadline exceeded",
			err:      fmt.Errorf("calling ZenML server: %w", context.DeadlineExceeded),
			wantKind: KindRemoteUnavailable,
		},
		{
			name:      "anything else is unexpected and sanitized",
			operation: "get_stack",
			err:       errors.New("index out of range [3]"),
			wantKind:  KindUnexpected,
			wantIn:    "get_stack",
		},
		{
			name:     "unknown operation",
			err:      &UnknownOperationError{Name: "nope"},
			wantKind: KindValidationError,
			wantIn:   "nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := tt.operation
			if op == "" {
				op = "some_op"
			}
			result := Translate(op, nil, tt.err)
			assert.Equal(t, tt.wantKind, result.Kind)
			if tt.wantIn != "" {
				assert.Contains(t, result.Message, tt.wantIn)
			}
		})
	}
}

func TestTranslate_Idempotent(t *testing.T) {
	classified := NewValidationError("exactly one of snapshot or template must be provided")

	first := Translate("trigger_pipeline", nil, classified)
	second := Translate("trigger_pipeline", nil, &Error{Kind: first.Kind, Message: first.Message})

	assert.Equal(t, first.Kind, second.Kind)
	assert.Equal(t, first.Message, second.Message, "re-translation must not re-wrap the message")
}

func TestTranslate_UnexpectedHidesInternals(t *testing.T) {
	result := Translate("get_user", nil, errors.New("panic at internal/zenml/client.go:42"))
	require.Equal(t, KindUnexpected, result.Kind)
	assert.NotContains(t, result.Message, "client.go")
}

func TestTranslate_HandlerBuiltResultPassesThrough(t *testing.T) {
	built := &Result{
		Kind:        KindSuccess,
		Payload:     map[string]any{"id": "run-1"},
		Deprecation: "template runs are deprecated",
	}

	result := Translate("trigger_pipeline", built, nil)
	assert.Same(t, built, result, "a handler-built result must not be re-wrapped")
	assert.Equal(t, "template runs are deprecated", result.Deprecation)
}

func TestTranslate_UnreachableRemoteLogsOneLine(t *testing.T) {
	var buf bytes.Buffer
	logging.Init(logging.LevelWarn, &buf)

	result := Translate("list_pipelines", nil,
		&url.Error{Op: "Get", URL: "http://zenml.internal", Err: errors.New("connection refused")})

	require.Equal(t, KindRemoteUnavailable, result.Kind)
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"), "exactly one diagnostic line per outage")
	assert.Contains(t, out, "list_pipelines")
	assert.Contains(t, out, "subsystem=Dispatcher")
	assert.NotContains(t, out, "http://zenml.internal", "diagnostics carry the operation, not the raw URL")
}
