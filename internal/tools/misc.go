package tools

import (
	"context"
	"fmt"

	"github.com/zenml-io/mcp-zenml/internal/config"
	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

func (d deps) miscDescriptors() []*dispatch.Descriptor {
	return []*dispatch.Descriptor{
		{
			Name:        "get_service",
			Description: "Get a service by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Service name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceServices, "name_id_or_prefix"),
		},
		{
			Name:        "list_services",
			Description: "List services, filterable by pipeline, run, and model version.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("id", "Filter by service ID"),
				strArg("created", "Filter by creation time"),
				strArg("updated", "Filter by update time"),
				boolArg("running", "Filter by running services"),
				strArg("service_name", "Filter by service name"),
				strArg("pipeline_name", "Filter by pipeline name"),
				strArg("pipeline_run_id", "Filter by pipeline run ID"),
				strArg("pipeline_step_name", "Filter by pipeline step name"),
				strArg("model_version_id", "Filter by model version ID"),
			}),
			Handler: d.list(zenml.ResourceServices,
				"id", "created", "updated", "running", "service_name",
				"pipeline_name", "pipeline_run_id", "pipeline_step_name", "model_version_id"),
		},
		{
			Name:        "list_secrets",
			Description: "List secrets by name. Secret values are never returned.",
			Args: withArgs(pageArgs(sizeLight), []dispatch.ArgSpec{
				strArg("name", "Filter by secret name"),
			}),
			Handler: d.list(zenml.ResourceSecrets, "name"),
		},
		{
			Name:        "get_server_settings",
			Description: "Get the ZenML server settings.",
			Handler: func(ctx context.Context, args dispatch.Args) (any, error) {
				c, err := d.holder.Get(ctx)
				if err != nil {
					return nil, err
				}
				return c.ServerSettings(ctx)
			},
		},
		{
			Name: "diagnose_setup",
			Description: "Diagnose the adapter's configuration and connectivity: environment " +
				"presence, server reachability, and authentication.",
			Handler: d.diagnoseSetup,
		},
	}
}

// diagnoseSetup reports what is and is not configured, probing the server
// when possible. It deliberately does not require a working client: its
// whole point is explaining why one cannot be built.
func (d deps) diagnoseSetup(ctx context.Context, args dispatch.Args) (any, error) {
	store := d.cfg.Store
	report := map[string]any{
		"store_url_set":      store.HasStoreURL(),
		"api_key_set":        store.HasAPIKey(),
		"active_project_set": store.ActiveProjectID != "",
		"store_url":          config.RedactURL(store.URL),
	}
	var issues []string

	if !store.HasStoreURL() {
		issues = append(issues, "ZENML_STORE_URL is not set")
	}
	if !store.HasAPIKey() {
		issues = append(issues, "ZENML_STORE_API_KEY is not set")
	}
	if store.ActiveProjectID == "" {
		issues = append(issues, "ZENML_ACTIVE_PROJECT_ID is not set; project-scoped operations need an explicit project argument")
	}

	if store.HasStoreURL() {
		info, err := zenml.ProbeServer(ctx, store.URL)
		if err != nil {
			report["server_reachable"] = false
			issues = append(issues, fmt.Sprintf("server is unreachable: %v", err))
		} else {
			report["server_reachable"] = true
			report["server_version"] = info.Version
		}
	}

	if store.HasStoreURL() && store.HasAPIKey() {
		if _, err := d.holder.Get(ctx); err != nil {
			report["authenticated"] = false
			issues = append(issues, fmt.Sprintf("authentication failed: %v", err))
		} else {
			report["authenticated"] = true
		}
	}

	status := "ok"
	if len(issues) > 0 {
		status = "issues_found"
	}
	report["status"] = status
	report["issues"] = issues
	return report, nil
}
