package tools

import (
	"context"

	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

func (d deps) projectDescriptors() []*dispatch.Descriptor {
	return []*dispatch.Descriptor{
		{
			Name:        "get_active_project",
			Description: "Get the currently configured active project.",
			Handler: func(ctx context.Context, args dispatch.Args) (any, error) {
				c, err := d.holder.Get(ctx)
				if err != nil {
					return nil, err
				}
				project, err := c.ProjectScope("")
				if err != nil {
					return nil, err
				}
				return c.GetResource(ctx, zenml.ResourceProjects, project, nil)
			},
		},
		{
			Name:        "get_project",
			Description: "Get a project by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Project name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceProjects, "name_id_or_prefix"),
		},
		{
			Name:        "list_projects",
			Description: "List projects on the ZenML server.",
			Args: withArgs(pageArgsWithOperator(sizeLight), []dispatch.ArgSpec{
				strArg("name", "Filter by project name"),
				strArg("display_name", "Filter by display name"),
				strArg("created", "Filter by creation time"),
				strArg("updated", "Filter by update time"),
			}),
			Handler: d.list(zenml.ResourceProjects, "name", "display_name", "created", "updated"),
		},
	}
}
