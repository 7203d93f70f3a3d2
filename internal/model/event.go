package model

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Event is a listed event with its uploaded flyer.  Owner holds the hex id of
// the user who submitted it; the pair (Title, Owner) is unique.
type Event struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Flyer       string        `bson:"flyer" json:"flyer"`
	Owner       string        `bson:"owner" json:"owner"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
}

// ErrInvalidID is returned by ParseID for anything that is not a 24 character
// hex object id.
var ErrInvalidID = errors.New("invalid id")

// ParseID converts the string form of a store id into an ObjectID.
func ParseID(s string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.NilObjectID, ErrInvalidID
	}
	return id, nil
}
