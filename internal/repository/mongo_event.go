package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/event-listing/internal/model"
)

// EventsCollection is the collection holding event documents.
const EventsCollection = "events"

// MongoEventStore mirrors the `events` collection.
type MongoEventStore struct{ coll *mongo.Collection }

func NewMongoEventStore(db *mongo.Database) *MongoEventStore {
	return &MongoEventStore{coll: db.Collection(EventsCollection)}
}

func (s *MongoEventStore) CountByTitleAndOwner(ctx context.Context, title, owner string) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"title": title, "owner": owner})
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

func (s *MongoEventStore) Insert(ctx context.Context, ev *model.Event) (bson.ObjectID, error) {
	doc := *ev
	if doc.ID.IsZero() {
		doc.ID = bson.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.NilObjectID, ErrConflict
		}
		return bson.NilObjectID, fmt.Errorf("insert event: %w", err)
	}
	ev.ID = doc.ID
	return doc.ID, nil
}

// listFilter builds the $or of case-insensitive literal substring matches.
func listFilter(f EventFilter) bson.M {
	var or bson.A
	if f.Title != "" {
		or = append(or, bson.M{"title": bson.Regex{Pattern: regexp.QuoteMeta(f.Title), Options: "i"}})
	}
	if f.Description != "" {
		or = append(or, bson.M{"description": bson.Regex{Pattern: regexp.QuoteMeta(f.Description), Options: "i"}})
	}
	if len(or) == 0 {
		return bson.M{}
	}
	return bson.M{"$or": or}
}

func (s *MongoEventStore) Find(ctx context.Context, f EventFilter) ([]model.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(f.Skip).
		SetLimit(f.Limit)
	cur, err := s.coll.Find(ctx, listFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	out := []model.Event{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return out, nil
}

func (s *MongoEventStore) FindByID(ctx context.Context, id bson.ObjectID) (*model.Event, error) {
	var ev model.Event
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return &ev, nil
}

func (s *MongoEventStore) Replace(ctx context.Context, ev *model.Event) error {
	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": ev.ID}, ev)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConflict
		}
		return fmt.Errorf("replace event: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoEventStore) Delete(ctx context.Context, id bson.ObjectID) (int64, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete event: %w", err)
	}
	return res.DeletedCount, nil
}
