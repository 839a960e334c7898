package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"espbridge/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "integrations.json"), zerolog.Nop())

	integrations, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, integrations)
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "integrations.json")
	s := NewFileStore(path, zerolog.Nop())
	ctx := context.Background()

	record := domain.Integration{
		ID:        "abc",
		Provider:  domain.ProviderGetResponse,
		APIKey:    "KEY",
		Validated: true,
		Meta:      map[string]any{"account": map[string]any{"accountId": "a1"}},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.Save(ctx, []domain.Integration{record}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, record.ID, loaded[0].ID)
	assert.Equal(t, record.Provider, loaded[0].Provider)
	assert.Equal(t, record.APIKey, loaded[0].APIKey)
	assert.True(t, loaded[0].Validated)
}

func TestFileStoreCorruptFileTreatedAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "integrations.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	s := NewFileStore(path, zerolog.Nop())
	ctx := context.Background()

	integrations, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, integrations)

	// The store must be reinitializable after a corrupt read.
	require.NoError(t, s.Save(ctx, []domain.Integration{{ID: "x", Provider: domain.ProviderMailchimp, APIKey: "k-us1"}}))
	integrations, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, integrations, 1)
	assert.Equal(t, "x", integrations[0].ID)
}

func TestFileStoreCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "integrations.json")
	s := NewFileStore(path, zerolog.Nop())

	require.NoError(t, s.Save(context.Background(), []domain.Integration{}))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
