package ports

import (
	"context"

	"espbridge/internal/domain"
)

// Provider is the uniform contract every ESP adapter satisfies. Each
// operation takes the raw credential; failures are always classified as a
// domain.ProviderError before they leave the adapter.
type Provider interface {
	// Name returns the provider identifier (e.g. "mailchimp").
	Name() string

	// ValidateCredential performs exactly one lightweight authenticated
	// call against the provider. No retries.
	ValidateCredential(ctx context.Context, apiKey string) (*domain.ValidationResult, error)

	// FetchLists returns the first page of audiences/campaigns, normalized.
	FetchLists(ctx context.Context, apiKey string) ([]domain.List, error)

	// FetchContacts returns normalized contacts. Adapters are free to
	// aggregate across sub-resources internally; the external contract is
	// the same either way.
	FetchContacts(ctx context.Context, apiKey string) ([]domain.Contact, error)
}

// ProviderRegistry resolves a provider identifier to its adapter. Unknown
// identifiers fail with a *domain.ValidationError.
type ProviderRegistry interface {
	Resolve(providerID string) (Provider, error)
	Names() []string
}
