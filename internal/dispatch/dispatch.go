package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/zenml-io/mcp-zenml/pkg/logging"
)

// Dispatcher routes invocations to registered operations. It owns the
// pre-handler argument contract: every handler runs against arguments that
// have already passed the declared specs, or not at all.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher returns a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Registry exposes the underlying registry for discovery surfaces.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch validates the raw arguments against the named operation's specs,
// runs the handler, and classifies the outcome. Validation failures
// short-circuit: the handler is never invoked on bad input. No lock is held
// across handler execution.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]any) *Result {
	desc, err := d.registry.Get(name)
	if err != nil {
		return Translate(name, nil, err)
	}

	args, err := validateArgs(desc, raw)
	if err != nil {
		return Translate(name, nil, err)
	}

	logging.Debug("Dispatcher", "executing %s", name)
	payload, err := desc.Handler(ctx, args)
	result := Translate(name, payload, err)

	if desc.Deprecated && result.OK() && result.Deprecation == "" {
		result.Deprecation = desc.DeprecationNotice
	}
	return result
}

// validateArgs checks raw arguments against the descriptor's specs and
// returns the coerced argument set. Defaults fill absent optional arguments;
// unknown arguments are rejected so typos fail loudly instead of being
// silently ignored.
func validateArgs(desc *Descriptor, raw map[string]any) (Args, error) {
	specs := make(map[string]ArgSpec, len(desc.Args))
	for _, spec := range desc.Args {
		specs[spec.Name] = spec
	}
	for name := range raw {
		if _, ok := specs[name]; !ok {
			return nil, NewValidationError("unknown argument %q for %s", name, desc.Name)
		}
	}

	args := make(Args, len(desc.Args))
	for _, spec := range desc.Args {
		value, supplied := raw[spec.Name]
		if !supplied || value == nil {
			if spec.Required {
				return nil, NewValidationError("missing required argument %q", spec.Name)
			}
			if spec.Default != nil {
				args[spec.Name] = spec.Default
			}
			continue
		}

		coerced, err := coerceArg(spec, value)
		if err != nil {
			return nil, err
		}
		args[spec.Name] = coerced
	}
	return args, nil
}

// coerceArg converts a raw JSON-decoded value into the spec's declared type
// and enforces enum and range constraints.
func coerceArg(spec ArgSpec, value any) (any, error) {
	switch spec.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, typeMismatch(spec, value)
		}
		if len(spec.Enum) > 0 && !containsString(spec.Enum, s) {
			return nil, NewValidationError("argument %q must be one of [%s], got %q",
				spec.Name, strings.Join(spec.Enum, ", "), s)
		}
		if isDatetimeFilterArg(spec.Name) {
			normalized, err := NormalizeDatetimeFilter(s)
			if err != nil {
				return nil, NewValidationError("argument %q: %v", spec.Name, err)
			}
			return normalized, nil
		}
		return s, nil

	case TypeInteger:
		var n int
		switch v := value.(type) {
		case int:
			n = v
		case int64:
			n = int(v)
		case float64:
			if v != float64(int(v)) {
				return nil, NewValidationError("argument %q must be a whole number, got %v", spec.Name, v)
			}
			n = int(v)
		default:
			return nil, typeMismatch(spec, value)
		}
		if err := checkRange(spec, float64(n)); err != nil {
			return nil, err
		}
		return n, nil

	case TypeNumber:
		var f float64
		switch v := value.(type) {
		case float64:
			f = v
		case int:
			f = float64(v)
		default:
			return nil, typeMismatch(spec, value)
		}
		if err := checkRange(spec, f); err != nil {
			return nil, err
		}
		return f, nil

	case TypeBoolean:
		b, ok := value.(bool)
		if !ok {
			return nil, typeMismatch(spec, value)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("descriptor declares unsupported type %q for %q", spec.Type, spec.Name)
	}
}

func typeMismatch(spec ArgSpec, value any) *Error {
	return NewValidationError("argument %q must be a %s, got %T", spec.Name, spec.Type, value)
}

func checkRange(spec ArgSpec, v float64) *Error {
	if spec.Minimum != nil && v < *spec.Minimum {
		return NewValidationError("argument %q must be >= %v, got %v", spec.Name, *spec.Minimum, v)
	}
	if spec.Maximum != nil && v > *spec.Maximum {
		return NewValidationError("argument %q must be <= %v, got %v", spec.Name, *spec.Maximum, v)
	}
	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
