package tools

import (
	"context"

	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

func (d deps) deploymentDescriptors() []*dispatch.Descriptor {
	return []*dispatch.Descriptor{
		{
			Name:        "get_deployment",
			Description: "Get a deployment by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Deployment name, UUID, or UUID prefix"),
				strArg("project", "Project name or ID (defaults to the active project)"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.getScoped(zenml.ResourceDeployments, "name_id_or_prefix"),
		},
		{
			Name:        "list_deployments",
			Description: "List deployments.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("name", "Filter by deployment name"),
				strArg("status", "Filter by deployment status"),
				strArg("url", "Filter by deployment URL"),
				strArg("pipeline", "Filter by pipeline name or ID"),
				strArg("snapshot_id", "Filter by source snapshot ID"),
				strArg("tag", "Filter by tag"),
				strArg("project", "Project name or ID (defaults to the active project)"),
			}),
			Handler: d.listScoped(zenml.ResourceDeployments,
				"name", "status", "url", "pipeline", "snapshot_id", "tag"),
		},
		{
			Name:        "get_deployment_logs",
			Description: "Get the most recent log lines of a deployment, bounded to a tail.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Deployment name, UUID, or UUID prefix"),
				strArg("project", "Project name or ID (defaults to the active project)"),
				{Name: "tail", Type: dispatch.TypeInteger, Description: "How many trailing lines to return", Default: dispatch.DefaultLogTail, Minimum: floatPtr(1)},
			},
			Handler: d.deploymentLogs,
		},
	}
}

func (d deps) deploymentLogs(ctx context.Context, args dispatch.Args) (any, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}
	project, err := c.ProjectScope(args.String("project"))
	if err != nil {
		return nil, err
	}

	requested := args.Int("tail")
	lines, err := c.DeploymentLogs(ctx, args.String("name_id_or_prefix"), project, dispatch.EffectiveTail(requested))
	if err != nil {
		return nil, err
	}
	return logEnvelope(lines, requested), nil
}
