package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"espbridge/internal/domain"
	"espbridge/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IntegrationService orchestrates ESP integrations: it resolves adapters
// through the registry, validates credentials at creation time, and later
// replays stored credentials against the provider for list/contact fetches.
type IntegrationService struct {
	registry ports.ProviderRegistry
	store    ports.IntegrationStore
	logger   zerolog.Logger

	// mu serializes read-modify-write of the whole collection. The store
	// has no transactions, so overlapping creates would otherwise lose
	// records.
	mu sync.Mutex
}

// NewIntegrationService creates a new integration service.
func NewIntegrationService(
	registry ports.ProviderRegistry,
	store ports.IntegrationStore,
	logger zerolog.Logger,
) *IntegrationService {
	return &IntegrationService{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// CreateIntegration validates the credential against the provider and, only
// on success, persists a new integration record. A failed validation
// persists nothing.
func (s *IntegrationService) CreateIntegration(ctx context.Context, providerID, apiKey string) (*domain.Integration, error) {
	if providerID == "" || apiKey == "" {
		return nil, domain.NewValidationError("provider and apiKey are required")
	}

	provider, err := s.registry.Resolve(providerID)
	if err != nil {
		return nil, err
	}

	result, err := provider.ValidateCredential(ctx, apiKey)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("provider", providerID).
			Msg("Credential validation failed")
		return nil, err
	}

	meta := result.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	integration := domain.Integration{
		ID:        uuid.NewString(),
		Provider:  providerID,
		APIKey:    apiKey,
		Validated: result.Valid,
		Meta:      meta,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load integrations: %w", err)
	}
	all = append(all, integration)
	if err := s.store.Save(ctx, all); err != nil {
		return nil, fmt.Errorf("failed to persist integration: %w", err)
	}

	s.logger.Info().
		Str("provider", providerID).
		Str("integrationId", integration.ID).
		Msg("Created integration")

	return &integration, nil
}

// ListIntegrations returns every persisted record verbatim.
func (s *IntegrationService) ListIntegrations(ctx context.Context) ([]domain.Integration, error) {
	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load integrations: %w", err)
	}
	return all, nil
}

// ListsResult pairs a provider identifier with its normalized lists.
type ListsResult struct {
	Provider string        `json:"provider"`
	Lists    []domain.List `json:"lists"`
}

// ContactsResult pairs a provider identifier with its normalized contacts.
type ContactsResult struct {
	Provider string           `json:"provider"`
	Contacts []domain.Contact `json:"contacts"`
}

// GetLists fetches the lists/audiences for a stored integration.
func (s *IntegrationService) GetLists(ctx context.Context, integrationID string) (*ListsResult, error) {
	integration, provider, err := s.resolveIntegration(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	lists, err := provider.FetchLists(ctx, integration.APIKey)
	if err != nil {
		return nil, err
	}
	return &ListsResult{Provider: integration.Provider, Lists: lists}, nil
}

// GetContacts fetches the contacts for a stored integration.
func (s *IntegrationService) GetContacts(ctx context.Context, integrationID string) (*ContactsResult, error) {
	integration, provider, err := s.resolveIntegration(ctx, integrationID)
	if err != nil {
		return nil, err
	}

	contacts, err := provider.FetchContacts(ctx, integration.APIKey)
	if err != nil {
		return nil, err
	}
	return &ContactsResult{Provider: integration.Provider, Contacts: contacts}, nil
}

// resolveIntegration looks up a record by id and the adapter for its
// provider.
func (s *IntegrationService) resolveIntegration(ctx context.Context, integrationID string) (*domain.Integration, ports.Provider, error) {
	if integrationID == "" {
		return nil, nil, domain.NewValidationError("integration id is required")
	}

	all, err := s.store.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load integrations: %w", err)
	}

	for i := range all {
		if all[i].ID == integrationID {
			provider, err := s.registry.Resolve(all[i].Provider)
			if err != nil {
				return nil, nil, err
			}
			return &all[i], provider, nil
		}
	}
	return nil, nil, domain.ErrNotFound
}
