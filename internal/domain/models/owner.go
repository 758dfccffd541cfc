// internal/domain/models/owner.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StoreOwner holds the MPIN credential for a store, keyed by the owner's
// verified mobile number. One owner per mobile; the store references the
// owner, not the other way around.
type StoreOwner struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Mobile   string             `bson:"mobile" json:"mobile"` // normalized digits, 91-prefixed
	MPINHash string             `bson:"mpin_hash" json:"-"`   // bcrypt hash (never in JSON)

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
