package dispatch

import "context"

// Argument types a descriptor may declare. They map one-to-one onto JSON
// schema primitive types on the protocol surface.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// ArgSpec declares one operation argument: its wire type, whether it is
// required, and the constraints the dispatcher enforces before the handler
// ever runs.
type ArgSpec struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Default     any
	Enum        []string
	Minimum     *float64
	Maximum     *float64
}

// Args holds the validated, coerced arguments a handler receives. Every key
// present has passed the declared ArgSpec; absent optional keys without a
// default stay absent.
type Args map[string]any

// String returns the named string argument, or "" when absent.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns the named integer argument, or 0 when absent.
func (a Args) Int(name string) int {
	v, _ := a[name].(int)
	return v
}

// Bool returns the named boolean argument, or false when absent.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Has reports whether the argument was supplied (or defaulted).
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// HandlerFunc executes one operation against validated arguments. It returns
// the raw payload; classification into a Result is the translator's job.
type HandlerFunc func(ctx context.Context, args Args) (any, error)

// Descriptor is the complete, immutable definition of one operation: name,
// documentation, argument specs, execution logic, and deprecation status.
// Deprecated descriptors stay fully functional; dispatch annotates their
// successful results with the notice instead of degrading them.
type Descriptor struct {
	Name        string
	Description string
	Args        []ArgSpec
	Handler     HandlerFunc

	Deprecated        bool
	ReplacedBy        string
	DeprecationNotice string
}
