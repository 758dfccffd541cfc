// internal/app/store/owners/ownerstore.go
package ownerstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kiranapage/kiranapage/internal/domain/models"
)

// Store provides access to the store_owners collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new owner store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("store_owners")}
}

// GetByMobile returns the owner record for a normalized mobile number.
func (s *Store) GetByMobile(ctx context.Context, mobile string) (models.StoreOwner, error) {
	var o models.StoreOwner
	err := s.c.FindOne(ctx, bson.M{"mobile": mobile}).Decode(&o)
	if err != nil {
		return models.StoreOwner{}, err
	}
	return o, nil
}

// GetByID returns an owner by its ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.StoreOwner, error) {
	var o models.StoreOwner
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		return models.StoreOwner{}, err
	}
	return o, nil
}

// Upsert creates or refreshes the owner credential for a mobile number.
// The MPIN hash is replaced when the record already exists, which is how
// an owner re-onboarding with a new MPIN takes effect.
func (s *Store) Upsert(ctx context.Context, mobile, mpinHash string) (models.StoreOwner, error) {
	now := time.Now().UTC()
	filter := bson.M{"mobile": mobile}
	update := bson.M{
		"$set": bson.M{
			"mpin_hash": mpinHash,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"mobile":     mobile,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var o models.StoreOwner
	if err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Decode(&o); err != nil {
		return models.StoreOwner{}, err
	}
	return o, nil
}
