package tools

import (
	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

func (d deps) stackDescriptors() []*dispatch.Descriptor {
	return []*dispatch.Descriptor{
		{
			Name:        "get_stack",
			Description: "Get a stack by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Stack name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceStacks, "name_id_or_prefix"),
		},
		{
			Name:        "list_stacks",
			Description: "List stacks registered on the ZenML server.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("name", "Filter by stack name"),
				strArg("created", "Filter by creation time"),
				strArg("updated", "Filter by update time"),
			}),
			Handler: d.list(zenml.ResourceStacks, "name", "created", "updated"),
		},
		{
			Name:        "get_stack_component",
			Description: "Get a stack component by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Component name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceStackComponents, "name_id_or_prefix"),
		},
		{
			Name:        "list_stack_components",
			Description: "List stack components, filterable by name, flavor, and stack.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("name", "Filter by component name"),
				strArg("flavor", "Filter by component flavor"),
				strArg("stack_id", "Filter by containing stack ID"),
			}),
			Handler: d.list(zenml.ResourceStackComponents, "name", "flavor", "stack_id"),
		},
		{
			Name:        "get_flavor",
			Description: "Get a stack component flavor by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Flavor name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceFlavors, "name_id_or_prefix"),
		},
		{
			Name:        "list_flavors",
			Description: "List stack component flavors.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("id", "Filter by flavor ID"),
				strArg("name", "Filter by flavor name"),
				strArg("integration", "Filter by providing integration"),
			}),
			Handler: d.list(zenml.ResourceFlavors, "id", "name", "integration"),
		},
		{
			Name:        "get_service_connector",
			Description: "Get a service connector by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Connector name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceServiceConnectors, "name_id_or_prefix"),
		},
		{
			Name:        "list_service_connectors",
			Description: "List service connectors.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("name", "Filter by connector name"),
				strArg("connector_type", "Filter by connector type"),
			}),
			Handler: d.list(zenml.ResourceServiceConnectors, "name", "connector_type"),
		},
	}
}
