package tools

import (
	"github.com/zenml-io/mcp-zenml/internal/config"
	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

// Register installs the full operation catalog into the registry. Handlers
// capture the holder and configuration; nothing here touches the network.
func Register(reg *dispatch.Registry, holder *zenml.Holder, cfg *config.Config) error {
	d := deps{holder: holder, cfg: cfg}

	groups := [][]*dispatch.Descriptor{
		d.userDescriptors(),
		d.projectDescriptors(),
		d.stackDescriptors(),
		d.pipelineDescriptors(),
		d.snapshotDescriptors(),
		d.deploymentDescriptors(),
		d.modelDescriptors(),
		d.miscDescriptors(),
	}
	for _, group := range groups {
		for _, desc := range group {
			if err := reg.Register(desc); err != nil {
				return err
			}
		}
	}
	return nil
}
