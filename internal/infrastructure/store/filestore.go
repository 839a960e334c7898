package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"espbridge/internal/domain"
	"espbridge/internal/ports"

	"github.com/rs/zerolog"
)

// fileDocument is the on-disk shape: a single JSON object holding the whole
// collection.
type fileDocument struct {
	Integrations []domain.Integration `json:"integrations"`
}

// FileStore keeps the integration collection in one JSON file. Load reads
// the whole file; Save rewrites it. A missing or corrupt file is treated as
// an empty collection and reinitialized on the next Save.
type FileStore struct {
	path   string
	logger zerolog.Logger
}

// NewFileStore creates a file-backed integration store at path.
func NewFileStore(path string, logger zerolog.Logger) ports.IntegrationStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Load(ctx context.Context) ([]domain.Integration, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Integration{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn().
			Err(err).
			Str("path", s.path).
			Msg("Store file is corrupt, treating as empty")
		return []domain.Integration{}, nil
	}
	if doc.Integrations == nil {
		doc.Integrations = []domain.Integration{}
	}
	return doc.Integrations, nil
}

func (s *FileStore) Save(ctx context.Context, integrations []domain.Integration) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(fileDocument{Integrations: integrations}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	// Write to a temp file first so a crash mid-write never corrupts the
	// current collection.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
