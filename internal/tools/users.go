package tools

import (
	"context"

	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

func (d deps) userDescriptors() []*dispatch.Descriptor {
	return []*dispatch.Descriptor{
		{
			Name:        "list_users",
			Description: "List users on the ZenML server, paginated and filterable.",
			Args: withArgs(pageArgsWithOperator(sizeLight), []dispatch.ArgSpec{
				strArg("name", "Filter by user name"),
				strArg("created", "Filter by creation time"),
				strArg("updated", "Filter by update time"),
				boolArg("active", "Filter by active status"),
			}),
			Handler: d.list(zenml.ResourceUsers, "name", "created", "updated", "active"),
		},
		{
			Name:        "get_user",
			Description: "Get a user by name, ID, or ID prefix.",
			Args:        []dispatch.ArgSpec{reqStrArg("name_id_or_prefix", "User name, UUID, or UUID prefix")},
			Handler:     d.get(zenml.ResourceUsers, "name_id_or_prefix"),
		},
		{
			Name:        "get_active_user",
			Description: "Get the user the configured API key authenticates as.",
			Handler: func(ctx context.Context, args dispatch.Args) (any, error) {
				c, err := d.holder.Get(ctx)
				if err != nil {
					return nil, err
				}
				return c.CurrentUser(ctx)
			},
		},
	}
}
