package ports

import (
	"context"

	"espbridge/internal/domain"
)

// IntegrationStore persists integration records as one whole collection.
// Load must treat a corrupt or missing backing store as empty rather than
// fatal. Callers are responsible for serializing read-modify-write cycles;
// the store itself has no transaction support.
type IntegrationStore interface {
	Load(ctx context.Context) ([]domain.Integration, error)
	Save(ctx context.Context, integrations []domain.Integration) error
}
