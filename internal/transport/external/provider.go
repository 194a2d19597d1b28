// Package external holds providers for queries that need data beyond the
// internal knowledge base: research findings, condition facts, medication
// guidance and local resource directories.
package external

import (
	"context"

	"github.com/wellspring-cloud/wellspring/internal/domain"
)

// Provider answers queries of a particular type from an external source.
// Returning ("", nil) means the provider has nothing for this query and the
// caller should fall back to the internal knowledge base.
type Provider interface {
	Fetch(ctx context.Context, question string) (string, error)
}

// Registry routes queries to a provider by query type.
type Registry struct {
	providers map[domain.QueryType]Provider
}

// NewRegistry builds the default registry with the built-in providers.
func NewRegistry() *Registry {
	return &Registry{
		providers: map[domain.QueryType]Provider{
			domain.TypeCurrentResearch:  ResearchProvider{},
			domain.TypeFactualCondition: ConditionFactsProvider{},
			domain.TypeMedicalInfo:      MedicalInfoProvider{},
			domain.TypeLocalResources:   LocalResourcesProvider{},
		},
	}
}

// Register installs or replaces the provider for a query type.
func (r *Registry) Register(t domain.QueryType, p Provider) {
	r.providers[t] = p
}

// Fetch dispatches to the provider registered for the query type.
// Query types with no provider yield ("", nil), which callers treat as a miss.
func (r *Registry) Fetch(ctx context.Context, t domain.QueryType, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", domain.ErrExternalUnavailable
	}

	p, ok := r.providers[t]
	if !ok {
		return "", nil
	}
	return p.Fetch(ctx, question)
}
