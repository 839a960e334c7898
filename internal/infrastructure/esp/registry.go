package esp

import (
	"sort"
	"strings"

	"espbridge/internal/domain"
	"espbridge/internal/ports"
)

// Registry maps provider identifiers to adapter instances. The supported
// set is fixed at construction; resolving an unknown identifier is a
// request-shape error, not a provider failure.
type Registry struct {
	providers map[string]ports.Provider
}

// NewRegistry builds a registry over the given adapters, keyed by Name().
func NewRegistry(providers ...ports.Provider) *Registry {
	m := make(map[string]ports.Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Resolve returns the adapter for a provider identifier.
func (r *Registry) Resolve(providerID string) (ports.Provider, error) {
	p, ok := r.providers[providerID]
	if !ok {
		return nil, domain.NewValidationError("provider must be one of: %s", strings.Join(r.Names(), ", "))
	}
	return p, nil
}

// Names returns the supported provider identifiers, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
