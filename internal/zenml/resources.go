package zenml

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// REST collection names under /api/v1. The remote API owns these; the
// adapter only routes to them.
const (
	ResourceUsers             = "users"
	ResourceProjects          = "projects"
	ResourceStacks            = "stacks"
	ResourceStackComponents   = "components"
	ResourceFlavors           = "flavors"
	ResourceServices          = "services"
	ResourceServiceConnectors = "service_connectors"
	ResourcePipelines         = "pipelines"
	ResourceRuns              = "runs"
	ResourceRunSteps          = "steps"
	ResourceSchedules         = "schedules"
	ResourceRunTemplates      = "run_templates"
	ResourceSnapshots         = "pipeline_snapshots"
	ResourceDeployments       = "deployments"
	ResourceArtifacts         = "artifacts"
	ResourceArtifactVersions  = "artifact_versions"
	ResourceSecrets           = "secrets"
	ResourceModels            = "models"
	ResourceModelVersions     = "model_versions"
	ResourceTags              = "tags"
	ResourceBuilds            = "pipeline_builds"
)

// ListOptions carries pagination, sorting and filter parameters for list
// calls. Filter values pass through to the remote API untouched; the adapter
// never reinterprets remote-side filtering semantics.
type ListOptions struct {
	SortBy          string
	Page            int
	Size            int
	LogicalOperator string
	Project         string
	Filters         url.Values
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	for key, values := range o.Filters {
		for _, v := range values {
			q.Add(key, v)
		}
	}
	if o.SortBy != "" {
		q.Set("sort_by", o.SortBy)
	}
	if o.Page > 0 {
		q.Set("page", strconv.Itoa(o.Page))
	}
	if o.Size > 0 {
		q.Set("size", strconv.Itoa(o.Size))
	}
	if o.LogicalOperator != "" {
		q.Set("logical_operator", o.LogicalOperator)
	}
	if o.Project != "" {
		q.Set("project", o.Project)
	}
	return q
}

// page mirrors the remote paginated envelope just enough to count and
// extract items; everything else stays opaque.
type page struct {
	Items []json.RawMessage `json:"items"`
	Total int               `json:"total"`
}

// ListResource returns one page of a resource collection as the remote
// server's opaque paginated envelope.
func (c *Client) ListResource(ctx context.Context, resource string, opts ListOptions) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/"+resource, opts.query(), nil)
}

// GetResource fetches a single entity by UUID, name, or name prefix. A UUID
// goes straight to the entity endpoint; anything else resolves through the
// collection with an exact-name filter first and a prefix filter second.
// Zero matches yield NotFoundError; several yield AmbiguousMatchError.
func (c *Client) GetResource(ctx context.Context, resource, nameOrID string, query url.Values) (json.RawMessage, error) {
	if _, err := uuid.Parse(nameOrID); err == nil {
		return c.do(ctx, http.MethodGet, "/"+resource+"/"+nameOrID, query, nil)
	}

	for _, filter := range []string{"equals:" + nameOrID, "startswith:" + nameOrID} {
		q := url.Values{}
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		q.Set("name", filter)
		q.Set("size", "2")

		raw, err := c.do(ctx, http.MethodGet, "/"+resource, q, nil)
		if err != nil {
			return nil, err
		}
		var p page
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decoding %s page: %w", resource, err)
		}
		switch {
		case p.Total == 1:
			return p.Items[0], nil
		case p.Total > 1:
			return nil, &AmbiguousMatchError{Resource: resource, NameOrID: nameOrID, Count: p.Total}
		}
	}
	return nil, &NotFoundError{Resource: resource, NameOrID: nameOrID}
}

// CurrentUser returns the user the configured API key authenticates as.
func (c *Client) CurrentUser(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/current-user", nil, nil)
}

// ServerSettings returns the remote server settings.
func (c *Client) ServerSettings(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, "/settings", nil, nil)
}

// TriggerOptions names the run to start. Exactly one of SnapshotNameOrID or
// TemplateID should be set; argument exclusivity is enforced by the tool
// layer before this call.
type TriggerOptions struct {
	PipelineNameOrID string
	SnapshotNameOrID string
	TemplateID       string
	StackNameOrID    string
}

// TriggerPipeline starts a run of the named pipeline from a snapshot or a
// deprecated run template. Triggering is fire-and-forget once issued: a
// caller-side timeout does not roll back the run.
func (c *Client) TriggerPipeline(ctx context.Context, opts TriggerOptions) (json.RawMessage, error) {
	pipeline, err := c.GetResource(ctx, ResourcePipelines, opts.PipelineNameOrID, nil)
	if err != nil {
		return nil, err
	}
	var meta struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(pipeline, &meta); err != nil || meta.ID == "" {
		return nil, fmt.Errorf("decoding pipeline identity: %w", err)
	}

	body := map[string]string{}
	if opts.SnapshotNameOrID != "" {
		body["snapshot_name_or_id"] = opts.SnapshotNameOrID
	}
	if opts.TemplateID != "" {
		body["template_id"] = opts.TemplateID
	}
	if opts.StackNameOrID != "" {
		body["stack_name_or_id"] = opts.StackNameOrID
	}
	return c.do(ctx, http.MethodPost, "/"+ResourcePipelines+"/"+meta.ID+"/trigger", nil, body)
}
