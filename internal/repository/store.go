package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/iliyamo/event-listing/internal/model"
)

// UserStore persists user records.  No update or delete is exposed.
type UserStore interface {
	// CountByEmail returns how many users are registered under email.
	CountByEmail(ctx context.Context, email string) (int64, error)
	// Insert stores u, assigning u.ID when it is zero, and returns the id.
	Insert(ctx context.Context, u *model.User) (bson.ObjectID, error)
	// FindByEmail returns ErrNotFound when no user has that email.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// EventFilter selects events for listing.  Title and Description are
// case-insensitive substrings combined with OR; an empty field does not take
// part in the match, and when both are empty every event matches.
type EventFilter struct {
	Title       string
	Description string
	Limit       int64
	Skip        int64
}

// EventStore persists event records.
type EventStore interface {
	CountByTitleAndOwner(ctx context.Context, title, owner string) (int64, error)
	Insert(ctx context.Context, ev *model.Event) (bson.ObjectID, error)
	Find(ctx context.Context, f EventFilter) ([]model.Event, error)
	// FindByID returns ErrNotFound when no event has that id.
	FindByID(ctx context.Context, id bson.ObjectID) (*model.Event, error)
	// Replace overwrites the stored event with ev (matched on ev.ID) and
	// returns ErrNotFound when nothing matched.
	Replace(ctx context.Context, ev *model.Event) error
	// Delete returns the number of removed events (0 or 1).
	Delete(ctx context.Context, id bson.ObjectID) (int64, error)
}
