package tools

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

func (d deps) modelDescriptors() []*dispatch.Descriptor {
	return []*dispatch.Descriptor{
		{
			Name:        "get_model",
			Description: "Get a model by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Model name, UUID, or UUID prefix"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceModels, "name_id_or_prefix"),
		},
		{
			Name:        "list_models",
			Description: "List models in the model registry.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				strArg("name", "Filter by model name"),
				strArg("tag", "Filter by tag"),
			}),
			Handler: d.list(zenml.ResourceModels, "name", "tag"),
		},
		{
			Name:        "get_model_version",
			Description: "Get a model version by name, number, or ID; the latest version when unspecified.",
			Args: []dispatch.ArgSpec{
				reqStrArg("model_name_or_id", "Model name or UUID"),
				strArg("model_version_name_or_number_or_id", "Version name, number, or UUID (defaults to the latest)"),
			},
			Handler: d.getModelVersion,
		},
		{
			Name:        "list_model_versions",
			Description: "List the versions of a model.",
			Args: withArgs(pageArgs(sizeMedium), []dispatch.ArgSpec{
				reqStrArg("model_name_or_id", "Model name or UUID"),
				strArg("name", "Filter by version name"),
				{Name: "number", Type: dispatch.TypeInteger, Description: "Filter by version number"},
				strArg("stage", "Filter by stage"),
				strArg("tag", "Filter by tag"),
			}),
			Handler: d.listModelVersions,
		},
		{
			Name:        "list_artifacts",
			Description: "List artifacts.",
			Args: withArgs(pageArgs(sizeHeavy), []dispatch.ArgSpec{
				strArg("name", "Filter by artifact name"),
				strArg("tag", "Filter by tag"),
			}),
			Handler: d.list(zenml.ResourceArtifacts, "name", "tag"),
		},
		{
			Name:        "get_artifact_version",
			Description: "Get an artifact version by ID, or by artifact name plus version.",
			Args: []dispatch.ArgSpec{
				reqStrArg("name_id_or_prefix", "Artifact version UUID, or artifact name"),
				strArg("version", "Version identifier when looking up by artifact name"),
			},
			Handler: d.getArtifactVersion,
		},
		{
			Name:        "list_artifact_versions",
			Description: "List the versions of an artifact.",
			Args: withArgs(pageArgs(sizeHeavy), []dispatch.ArgSpec{
				reqStrArg("artifact_name_or_id", "Artifact name or UUID"),
				strArg("created", "Filter by creation time"),
				strArg("updated", "Filter by update time"),
				strArg("tag", "Filter by tag"),
			}),
			Handler: d.listArtifactVersions,
		},
		{
			Name:        "get_tag",
			Description: "Get a tag by name, ID, or ID prefix.",
			Args: []dispatch.ArgSpec{
				reqStrArg("tag_name_or_id", "Tag name or UUID"),
				boolArgDefault("hydrate", "Return the fully hydrated representation", true),
			},
			Handler: d.get(zenml.ResourceTags, "tag_name_or_id"),
		},
		{
			Name:        "list_tags",
			Description: "List tags.",
			Args: withArgs(pageArgs(sizeLight), []dispatch.ArgSpec{
				strArg("name", "Filter by tag name"),
				boolArg("exclusive", "Filter by exclusive tags"),
				strArg("resource_type", "Filter by taggable resource type"),
			}),
			Handler: d.list(zenml.ResourceTags, "name", "exclusive", "resource_type"),
		},
	}
}

// getModelVersion resolves the model first, then selects the version: by
// explicit identifier when given, otherwise the highest version number.
func (d deps) getModelVersion(ctx context.Context, args dispatch.Args) (any, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}
	modelID, err := d.resolveID(ctx, zenml.ResourceModels, args.String("model_name_or_id"))
	if err != nil {
		return nil, err
	}

	version := args.String("model_version_name_or_number_or_id")
	filters := url.Values{"model_id": {modelID}}
	opts := zenml.ListOptions{Size: 2, Filters: filters}

	switch {
	case version == "":
		// Latest version.
		opts.SortBy = "desc:number"
		opts.Size = 1
	case isNumeric(version):
		filters.Set("number", version)
	default:
		if _, err := uuid.Parse(version); err == nil {
			return c.GetResource(ctx, zenml.ResourceModelVersions, version, nil)
		}
		filters.Set("name", version)
	}

	raw, err := c.ListResource(ctx, zenml.ResourceModelVersions, opts)
	if err != nil {
		return nil, err
	}
	var p struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if len(p.Items) == 0 {
		return nil, &zenml.NotFoundError{Resource: zenml.ResourceModelVersions, NameOrID: args.String("model_name_or_id") + "/" + version}
	}
	return p.Items[0], nil
}

func (d deps) listModelVersions(ctx context.Context, args dispatch.Args) (any, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}
	modelID, err := d.resolveID(ctx, zenml.ResourceModels, args.String("model_name_or_id"))
	if err != nil {
		return nil, err
	}
	opts := listOptions(args, "name", "number", "stage", "tag")
	opts.Filters.Set("model_id", modelID)
	return c.ListResource(ctx, zenml.ResourceModelVersions, opts)
}

// getArtifactVersion treats the primary argument as a version UUID first and
// as an artifact name second.
func (d deps) getArtifactVersion(ctx context.Context, args dispatch.Args) (any, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}
	nameOrID := args.String("name_id_or_prefix")
	version := args.String("version")
	if version == "" {
		return c.GetResource(ctx, zenml.ResourceArtifactVersions, nameOrID, nil)
	}

	raw, err := c.ListResource(ctx, zenml.ResourceArtifactVersions, zenml.ListOptions{
		Size:    2,
		Filters: url.Values{"artifact": {nameOrID}, "version": {version}},
	})
	if err != nil {
		return nil, err
	}
	var p struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	switch {
	case p.Total == 1:
		return p.Items[0], nil
	case p.Total > 1:
		return nil, &zenml.AmbiguousMatchError{Resource: zenml.ResourceArtifactVersions, NameOrID: nameOrID + ":" + version, Count: p.Total}
	}
	return nil, &zenml.NotFoundError{Resource: zenml.ResourceArtifactVersions, NameOrID: nameOrID + ":" + version}
}

func (d deps) listArtifactVersions(ctx context.Context, args dispatch.Args) (any, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return nil, err
	}
	opts := listOptions(args, "created", "updated", "tag")
	opts.Filters.Set("artifact", args.String("artifact_name_or_id"))
	return c.ListResource(ctx, zenml.ResourceArtifactVersions, opts)
}

// resolveID turns a name-or-ID reference into the entity's UUID.
func (d deps) resolveID(ctx context.Context, resource, nameOrID string) (string, error) {
	c, err := d.holder.Get(ctx)
	if err != nil {
		return "", err
	}
	raw, err := c.GetResource(ctx, resource, nameOrID, nil)
	if err != nil {
		return "", err
	}
	var meta struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil || meta.ID == "" {
		return "", &zenml.NotFoundError{Resource: resource, NameOrID: nameOrID}
	}
	return meta.ID, nil
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
