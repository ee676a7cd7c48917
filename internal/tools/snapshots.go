package tools

import (
	"context"
	"strconv"

	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

const runTemplateNotice = "run templates are deprecated in favor of pipeline snapshots; " +
	"use get_snapshot / list_snapshots instead"

const triggerTemplateNotice = "triggering via template_id is deprecated in favor of " +
	"snapshot_name_or_id; run templates will be removed in a future server version"

func (d deps) snapshotDescriptors() []*dispatch.Descriptor {
	return []*dispatch.Descriptor{
		{
			Name:        "get_snapshot",
			Description: "Get a pipeline snapshot by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Snapshot name, UUID, or UUID prefix"),
				strArg("pipeline_name_or_id", "Restrict the lookup to one pipeline"),
				strArg("project", "Project name or ID (defaults to the active project)"),
				boolArg("include_config_schema", "Include the run configuration schema"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.getSnapshot,
		},
		{
			Name:        "list_snapshots",
			Description: "List pipeline snapshots.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("name", "Filter by snapshot name"),
				strArg("pipeline", "Filter by pipeline name or ID"),
				boolArg("runnable", "Filter by runnable snapshots"),
				boolArg("deployable", "Filter by deployable snapshots"),
				boolArg("deployed", "Filter by deployed snapshots"),
				strArg("tag", "Filter by tag"),
				strArg("project", "Project name or ID (defaults to the active project)"),
				boolArgDefault("named_only", "Only include explicitly named snapshots", true),
			}),
			Handler: d.listScoped(zenml.ResourceSnapshots,
				"name", "pipeline", "runnable", "deployable", "deployed", "tag", "named_only"),
		},
		{
			Name:              "get_run_template",
			Description:       "Get a run template by name, ID, or ID prefix. Deprecated: use get_snapshot.",
			Deprecated:        true,
			ReplacedBy:        "get_snapshot",
			DeprecationNotice: runTemplateNotice,
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Template name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceRunTemplates, "name_id_or_prefix"),
		},
		{
			Name:              "list_run_templates",
			Description:       "List run templates. Deprecated: use list_snapshots.",
			Deprecated:        true,
			ReplacedBy:        "list_snapshots",
			DeprecationNotice: runTemplateNotice,
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("created", "Filter by creation time"),
				strArg("updated", "Filter by update time"),
				strArg("name", "Filter by template name"),
				strArg("tag", "Filter by tag"),
			}),
			Handler: d.list(zenml.ResourceRunTemplates, "created", "updated", "name", "tag"),
		},
		{
			Name: "trigger_pipeline",
			Description: "Trigger a new run of a pipeline from a snapshot. Exactly one of " +
				"snapshot_name_or_id or template_id must be provided.",
			Args: []dispatch.ArgSpec{
				reqStrArg("pipeline_name_or_id", "Pipeline name or UUID"),
				strArg("snapshot_name_or_id", "Snapshot to run"),
				strArg("template_id", "Run template to run (deprecated: prefer snapshot_name_or_id)"),
				strArg("stack_name_or_id", "Stack to run on (defaults to the snapshot's stack)"),
			},
			Handler: d.triggerPipeline,
		},
	}
}

func (d deps) getSnapshot(ctx context.Context, args dispatch.Args) (any, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}
	project, err := c.ProjectScope(args.String("project"))
	if err != nil {
		return nil, err
	}

	q := hydrateQuery(args)
	q.Set("project", project)
	if pipeline := args.String("pipeline_name_or_id"); pipeline != "" {
		q.Set("pipeline", pipeline)
	}
	if args.Bool("include_config_schema") {
		q.Set("include_config_schema", strconv.FormatBool(true))
	}
	return c.GetResource(ctx, zenml.ResourceSnapshots, args.String("name_id_or_prefix"), q)
}

// triggerPipeline enforces run-source exclusivity before anything leaves the
// process: exactly one of snapshot and template, unless configuration allows
// falling back to the latest runnable snapshot.
func (d deps) triggerPipeline(ctx context.Context, args dispatch.Args) (any, error) {
	snapshot := args.String("snapshot_name_or_id")
	template := args.String("template_id")

	if snapshot != "" && template != "" {
		return nil, dispatch.NewValidationError(
			"exactly one of snapshot or template must be provided, not both")
	}
	if snapshot == "" && template == "" && !d.cfg.Trigger.DefaultToLatest {
		return nil, dispatch.NewValidationError(
			"exactly one of snapshot or template must be provided")
	}

	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := c.TriggerPipeline(ctx, zenml.TriggerOptions{
		PipelineNameOrID: args.String("pipeline_name_or_id"),
		SnapshotNameOrID: snapshot,
		TemplateID:       template,
		StackNameOrID:    args.String("stack_name_or_id"),
	})
	if err != nil {
		return nil, err
	}

	// The operation itself is current; only the template path is deprecated,
	// so the notice rides on the result rather than the descriptor.
	if template != "" {
		return &dispatch.Result{
			Kind:        dispatch.KindSuccess,
			Payload:     raw,
			Deprecation: triggerTemplateNotice,
		}, nil
	}
	return raw, nil
}
