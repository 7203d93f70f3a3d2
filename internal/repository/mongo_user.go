package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/event-listing/internal/model"
)

// UsersCollection is the collection holding user documents.
const UsersCollection = "users"

// MongoUserStore mirrors the `users` collection.
type MongoUserStore struct{ coll *mongo.Collection }

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection(UsersCollection)}
}

func (s *MongoUserStore) CountByEmail(ctx context.Context, email string) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, u *model.User) (bson.ObjectID, error) {
	doc := *u
	if doc.ID.IsZero() {
		doc.ID = bson.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.NilObjectID, ErrConflict
		}
		return bson.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	u.ID = doc.ID
	return doc.ID, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}
