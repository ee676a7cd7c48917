package tools

import (
	"context"
	"net/url"
	"strconv"

	"github.com/zenml-io/mcp-zenml/internal/config"
	"github.com/zenml-io/mcp-zenml/internal/dispatch"
	"github.com/zenml-io/mcp-zenml/internal/zenml"
)

// Page-size defaults, scaled to how heavy one entity is to read.
const (
	sizeLight  = 50
	sizeMedium = 20
	sizeHeavy  = 10
)

// deps is what every handler closure captures: the client holder (never a
// package global) and the loaded configuration.
type deps struct {
	holder *zenml.Holder
	cfg    *config.Config
}

func floatPtr(f float64) *float64 { return &f }

func strArg(name, description string) dispatch.ArgSpec {
	return dispatch.ArgSpec{Name: name, Type: dispatch.TypeString, Description: description}
}

func reqStrArg(name, description string) dispatch.ArgSpec {
	return dispatch.ArgSpec{Name: name, Type: dispatch.TypeString, Description: description, Required: true}
}

func boolArg(name, description string) dispatch.ArgSpec {
	return dispatch.ArgSpec{Name: name, Type: dispatch.TypeBoolean, Description: description}
}

func boolArgDefault(name, description string, def bool) dispatch.ArgSpec {
	return dispatch.ArgSpec{Name: name, Type: dispatch.TypeBoolean, Description: description, Default: def}
}

func intArg(name, description string, def int) dispatch.ArgSpec {
	return dispatch.ArgSpec{Name: name, Type: dispatch.TypeInteger, Description: description, Default: def}
}

// pageArgs declares the shared pagination arguments of list operations.
func pageArgs(defaultSize int) []dispatch.ArgSpec {
	return []dispatch.ArgSpec{
		strArg("sort_by", "Sort expression, e.g. 'created' or 'desc:created'"),
		{Name: "page", Type: dispatch.TypeInteger, Description: "Page number (1-based)", Default: 1, Minimum: floatPtr(1)},
		{Name: "size", Type: dispatch.TypeInteger, Description: "Page size", Default: defaultSize, Minimum: floatPtr(1), Maximum: floatPtr(1000)},
	}
}

// pageArgsWithOperator adds the logical_operator argument for list operations
// whose remote endpoint supports combining filters with and/or.
func pageArgsWithOperator(defaultSize int) []dispatch.ArgSpec {
	return append(pageArgs(defaultSize),
		dispatch.ArgSpec{
			Name:        "logical_operator",
			Type:        dispatch.TypeString,
			Description: "How multiple filters combine",
			Enum:        []string{"and", "or"},
		})
}

// withArgs concatenates argument spec groups for a descriptor literal.
func withArgs(groups ...[]dispatch.ArgSpec) []dispatch.ArgSpec {
	var out []dispatch.ArgSpec
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// filterValues copies the named arguments into remote filter parameters,
// passing values through untouched. Booleans and integers are rendered the
// way the remote API parses them.
func filterValues(args dispatch.Args, names ...string) url.Values {
	filters := url.Values{}
	for _, name := range names {
		if !args.Has(name) {
			continue
		}
		switch v := args[name].(type) {
		case string:
			if v != "" {
				filters.Set(name, v)
			}
		case bool:
			filters.Set(name, strconv.FormatBool(v))
		case int:
			filters.Set(name, strconv.Itoa(v))
		}
	}
	return filters
}

// listOptions assembles pagination plus the given filters from arguments.
func listOptions(args dispatch.Args, filterNames ...string) zenml.ListOptions {
	return zenml.ListOptions{
		SortBy:          args.String("sort_by"),
		Page:            args.Int("page"),
		Size:            args.Int("size"),
		LogicalOperator: args.String("logical_operator"),
		Filters:         filterValues(args, filterNames...),
	}
}

// list builds the standard list handler: one remote page call with filters
// passed through.
func (d deps) list(resource string, filterNames ...string) dispatch.HandlerFunc {
	return func(ctx context.Context, args dispatch.Args) (any, error) {
		c, err := d.holder.Get(ctx)
		if err != nil {
			return nil, err
		}
		return c.ListResource(ctx, resource, listOptions(args, filterNames...))
	}
}

// listScoped is list with project resolution: the explicit project argument
// wins, then the configured active project, else a configuration error.
func (d deps) listScoped(resource string, filterNames ...string) dispatch.HandlerFunc {
	return func(ctx context.Context, args dispatch.Args) (any, error) {
		c, err := d.holder.Get(ctx)
		if err != nil {
			return nil, err
		}
		opts := listOptions(args, filterNames...)
		opts.Project, err = c.ProjectScope(args.String("project"))
		if err != nil {
			return nil, err
		}
		return c.ListResource(ctx, resource, opts)
	}
}

// get builds the standard single-entity handler: fetch by UUID, exact name,
// or name prefix, hydrated unless the caller opts out.
func (d deps) get(resource, argName string) dispatch.HandlerFunc {
	return func(ctx context.Context, args dispatch.Args) (any, error) {
		c, err := d.holder.Get(ctx)
		if err != nil {
			return nil, err
		}
		return c.GetResource(ctx, resource, args.String(argName), hydrateQuery(args))
	}
}

// getScoped is get with project resolution, for project-scoped entities.
func (d deps) getScoped(resource, argName string) dispatch.HandlerFunc {
	return func(ctx context.Context, args dispatch.Args) (any, error) {
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
		return c.GetResource(ctx, resource, args.String(argName), q)
	}
}

func hydrateQuery(args dispatch.Args) url.Values {
	q := url.Values{}
	hydrate := true
	if args.Has("hydrate") {
		hydrate = args.Bool("hydrate")
	}
	q.Set("hydrate", strconv.FormatBool(hydrate))
	return q
}
