package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/iliyamo/event-listing/internal/repository"
)

// OpenMongo connects to MongoDB and verifies the connection against the
// primary.
func OpenMongo(uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// mongoIndexes lists the unique indexes the stores rely on.
func mongoIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		repository.UsersCollection: {{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uq_users_email"),
		}},
		repository.EventsCollection: {{
			Keys:    bson.D{{Key: "title", Value: 1}, {Key: "owner", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uq_events_title_owner"),
		}},
	}
}

// EnsureMongoIndexes creates the unique indexes; it is idempotent.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range mongoIndexes() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
