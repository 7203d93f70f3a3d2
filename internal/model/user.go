package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents an application user as stored in the `users` collection
// (or table).  The password is only ever kept as a bcrypt hash; the json tag
// keeps it out of every response.
//
// Fields:
//
//	ID           – store-assigned identifier.
//	Username     – display name, not unique.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash of the password.
//	CreatedAt    – timestamp of registration.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string        `bson:"username" json:"username"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"password" json:"-"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
}
