package tools

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

func (d deps) pipelineDescriptors() []*dispatch.Descriptor {
	return []*dispatch.Descriptor{
		{
			Name:        "list_pipelines",
			Description: "List pipelines on the ZenML server.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("name", "Filter by pipeline name"),
				strArg("created", "Filter by creation time"),
				strArg("updated", "Filter by update time"),
			}),
			Handler: d.list(zenml.ResourcePipelines, "name", "created", "updated"),
		},
		{
			Name:        "get_pipeline_details",
			Description: "Get a pipeline together with the status of its most recent runs.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Pipeline name, UUID, or UUID prefix"),
				{Name: "num_runs", Type: dispatch.TypeInteger, Description: "How many recent runs to include", Default: 5, Minimum: floatPtr(1), Maximum: floatPtr(100)},
			},
			Handler: d.pipelineDetails,
		},
		{
			Name:        "get_pipeline_run",
			Description: "Get a pipeline run by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Run name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceRuns, "name_id_or_prefix"),
		},
		{
			Name:        "list_pipeline_runs",
			Description: "List pipeline runs, filterable by pipeline, stack, status, and time window.",
			Args: withArgs(pageArgs(sizeHeavy), []dispatch.ArgSpec{
				strArg("name", "Filter by run name"),
				strArg("pipeline_id", "Filter by pipeline ID"),
				strArg("pipeline_name", "Filter by pipeline name"),
				strArg("stack_id", "Filter by stack ID"),
				strArg("status", "Filter by run status"),
				strArg("start_time", "Filter by start time"),
				strArg("end_time", "Filter by end time"),
				strArg("stack", "Filter by stack name or ID"),
				strArg("stack_component", "Filter by stack component name or ID"),
			}),
			Handler: d.list(zenml.ResourceRuns,
				"name", "pipeline_id", "pipeline_name", "stack_id", "status",
				"start_time", "end_time", "stack", "stack_component"),
		},
		{
			Name:        "get_run_step",
			Description: "Get a step run by its ID.",
			Args:        []dispatch.ArgSpec{reqStrArg("step_run_id", "Step run UUID")},
			Handler:     d.get(zenml.ResourceRunSteps, "step_run_id"),
		},
		{
			Name:        "list_run_steps",
			Description: "List step runs, filterable by run, status, and time window.",
			Args: withArgs(pageArgs(sizeHeavy), []dispatch.ArgSpec{
				strArg("name", "Filter by step name"),
				strArg("status", "Filter by step status"),
				strArg("start_time", "Filter by start time"),
				strArg("end_time", "Filter by end time"),
				strArg("pipeline_run_id", "Filter by parent pipeline run ID"),
			}),
			Handler: d.list(zenml.ResourceRunSteps,
				"name", "status", "start_time", "end_time", "pipeline_run_id"),
		},
		{
			Name:        "get_step_logs",
			Description: "Get the stored logs of a step run, bounded to a recent tail.",
			Args: []dispatch.ArgSpec{
				reqStrArg("step_run_id", "Step run UUID"),
				{Name: "tail", Type: dispatch.TypeInteger, Description: "How many trailing lines to return", Default: dispatch.DefaultLogTail, Minimum: floatPtr(1)},
			},
			Handler: d.stepLogs,
		},
		{
			Name:        "get_step_code",
			Description: "Get the source code of a step run.",
			Args:        []dispatch.ArgSpec{reqStrArg("step_run_id", "Step run UUID")},
			Handler:     d.stepCode,
		},
		{
			Name:        "get_schedule",
			Description: "Get a schedule by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Schedule name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceSchedules, "name_id_or_prefix"),
		},
		{
			Name:        "list_schedules",
			Description: "List schedules, filterable by pipeline and orchestrator.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("name", "Filter by schedule name"),
				strArg("pipeline_id", "Filter by pipeline ID"),
				strArg("orchestrator_id", "Filter by orchestrator component ID"),
				boolArg("active", "Filter by active status"),
			}),
			Handler: d.list(zenml.ResourceSchedules, "name", "pipeline_id", "orchestrator_id", "active"),
		},
		{
			Name:        "get_build",
			Description: "Get a pipeline build by ID or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("id_or_prefix", "Build UUID or UUID prefix"),
				strArg("project", "Project name or ID (defaults to the active project)"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.getScoped(zenml.ResourceBuilds, "id_or_prefix"),
		},
		{
			Name:        "list_builds",
			Description: "List pipeline builds.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("pipeline_id", "Filter by pipeline ID"),
				strArg("stack_id", "Filter by stack ID"),
				boolArg("is_local", "Filter by local builds"),
				boolArg("contains_code", "Filter by builds that include code"),
				strArg("project", "Project name or ID (defaults to the active project)"),
			}),
			Handler: d.listScoped(zenml.ResourceBuilds, "pipeline_id", "stack_id", "is_local", "contains_code"),
		},
	}
}

// pipelineDetails composes the pipeline entity with the status of its most
// recent runs, saving callers a second round trip.
func (d deps) pipelineDetails(ctx context.Context, args dispatch.Args) (any, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}

	pipeline, err := c.GetResource(ctx, zenml.ResourcePipelines, args.String("name_id_or_prefix"), nil)
	if err != nil {
		return nil, err
	}
	var meta struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(pipeline, &meta); err != nil {
		return nil, err
	}

	numRuns := args.Int("num_runs")
	runsPage, err := c.ListResource(ctx, zenml.ResourceRuns, zenml.ListOptions{
		SortBy:  "desc:created",
		Size:    numRuns,
		Filters: map[string][]string{"pipeline_id": {meta.ID}},
	})
	if err != nil {
		return nil, err
	}

	var runs struct {
		Items []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Status  string `json:"status"`
			Created string `json:"created"`
		} `json:"items"`
	}
	if err := json.Unmarshal(runsPage, &runs); err != nil {
		return nil, err
	}
	statuses := make([]map[string]string, 0, len(runs.Items))
	for _, run := range runs.Items {
		statuses = append(statuses, map[string]string{
			"id":      run.ID,
			"name":    run.Name,
			"status":  run.Status,
			"created": run.Created,
		})
	}

	return map[string]any{
		"pipeline":           json.RawMessage(pipeline),
		"latest_runs_status": statuses,
		"num_runs":           len(statuses),
	}, nil
}

// stepLogs fetches step-run logs and bounds them before they leave the
// server.
func (d deps) stepLogs(ctx context.Context, args dispatch.Args) (any, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}
	lines, err := c.StepLogs(ctx, args.String("step_run_id"))
	if err != nil {
		return nil, err
	}
	return logEnvelope(lines, args.Int("tail")), nil
}

// logEnvelope applies the bounding policy and wraps the lines with explicit
// truncation metadata. A request beyond the hard tail ceiling reports as
// truncated even when the remote happened to return fewer lines: the caller
// asked for more than the policy allows, so the clamp is always surfaced.
func logEnvelope(lines []string, requestedTail int) map[string]any {
	effective := dispatch.EffectiveTail(requestedTail)
	bounded := dispatch.Bound(lines, effective, dispatch.MaxLogBytes)

	truncated := bounded.Truncated
	envelope := map[string]any{
		"logs":           strings.Join(bounded.Items, "\n"),
		"line_count":     len(bounded.Items),
		"tail_requested": requestedTail,
		"tail_effective": effective,
	}
	switch {
	case requestedTail > dispatch.MaxLogTail:
		truncated = true
		envelope["truncation_message"] = "requested tail exceeds the hard limit; " +
			"returning the most recent lines only"
	case bounded.Truncated:
		envelope["truncation_message"] = "output truncated to the most recent " +
			strconv.Itoa(len(bounded.Items)) + " lines"
	}
	envelope["truncated"] = truncated
	return envelope
}

// stepCode extracts the source code of a step run from its hydrated
// representation.
func (d deps) stepCode(ctx context.Context, args dispatch.Args) (any, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.GetResource(ctx, zenml.ResourceRunSteps, args.String("step_run_id"),
		map[string][]string{"hydrate": {"true"}})
	if err != nil {
		return nil, err
	}

	var step map[string]json.RawMessage
	if err := json.Unmarshal(raw, &step); err != nil {
		return nil, err
	}
	for _, section := range []string{"", "metadata", "body"} {
		scope := step
		if section != "" {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(step[section], &nested); err != nil {
				continue
			}
			scope = nested
		}
		var code string
		if err := json.Unmarshal(scope["source_code"], &code); err == nil && code != "" {
			return map[string]any{"source_code": code}, nil
		}
	}
	return nil, &zenml.NotFoundError{Resource: "step source code", NameOrID: args.String("step_run_id")}
}
