package dispatch

import "sort"

// Registry maps operation names to descriptors. Registration happens during
// startup, before any dispatching; after that the registry is read-only, so
// lookups need no locking.
type Registry struct {
	descriptors map[string]*Descriptor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]*Descriptor)}
}

// Register adds a descriptor. A name collision returns
// DuplicateOperationError and leaves the existing registration untouched.
func (r *Registry) Register(d *Descriptor) error {
	if _, exists := r.descriptors[d.Name]; exists {
		return &DuplicateOperationError{Name: d.Name}
	}
	r.descriptors[d.Name] = d
	return nil
}

// MustRegister registers a descriptor and panics on collision. The catalog
// is assembled from literals at startup, so a collision is a programming
// error, not a runtime condition.
func (r *Registry) MustRegister(d *Descriptor) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Get returns the descriptor for name, or UnknownOperationError.
func (r *Registry) Get(name string) (*Descriptor, error) {
	d, ok := r.descriptors[name]
	if !ok {
		return nil, &UnknownOperationError{Name: name}
	}
	return d, nil
}

// Descriptors enumerates all registrations sorted by name, for discovery
// surfaces that need a stable order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	return len(r.descriptors)
}
