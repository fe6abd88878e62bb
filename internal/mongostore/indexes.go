package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EnsureIndexes creates the indexes backing the deadline listing and the per-email lookups.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		NeedsCollection: {
			{Keys: bson.D{{Key: "deadline", Value: 1}}},
			{Keys: bson.D{{Key: "organizer.email", Value: 1}}},
		},
		RequestsCollection: {
			{Keys: bson.D{{Key: "volunteer.email", Value: 1}}},
			{Keys: bson.D{{Key: "organizer.email", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}

	return nil
}
