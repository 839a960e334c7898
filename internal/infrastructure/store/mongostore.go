package store

import (
	"context"
	"fmt"

	"espbridge/internal/domain"
	"espbridge/internal/ports"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore persists integration records as documents in a single
// collection. It still honors the whole-collection Load/Save contract:
// Save clears the collection and reinserts, so callers must serialize
// read-modify-write cycles just as with the other backends.
type MongoStore struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoStore creates a MongoDB-backed integration store.
func NewMongoStore(db *mongo.Database, logger zerolog.Logger) ports.IntegrationStore {
	return &MongoStore{
		collection: db.Collection("integrations"),
		logger:     logger,
	}
}

func (s *MongoStore) Load(ctx context.Context) ([]domain.Integration, error) {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}
	defer cursor.Close(ctx)

	integrations := []domain.Integration{}
	for cursor.Next(ctx) {
		var doc domain.Integration
		if err := cursor.Decode(&doc); err != nil {
			s.logger.Warn().Err(err).Msg("Skipping undecodable integration document")
			continue
		}
		integrations = append(integrations, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return integrations, nil
}

func (s *MongoStore) Save(ctx context.Context, integrations []domain.Integration) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear integrations: %w", err)
	}
	if len(integrations) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(integrations))
	for _, integration := range integrations {
		docs = append(docs, integration)
	}
	if _, err := s.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to save integrations: %w", err)
	}
	return nil
}
