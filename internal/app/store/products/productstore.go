// internal/app/store/products/productstore.go
package productstore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kiranapage/kiranapage/internal/domain/models"
)

// Store provides access to the products collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new product store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("products")}
}

// Add inserts a new product for a store. An empty image falls back to the
// placeholder.
func (s *Store) Add(ctx context.Context, p models.Product) (models.Product, error) {
	p.ID = primitive.NewObjectID()
	p.Name = strings.TrimSpace(p.Name)
	if strings.TrimSpace(p.Image) == "" {
		p.Image = models.DefaultProductImage
	}
	p.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// ListByStore returns a store's products ordered by sort_order, then
// creation time. This is the storefront display order.
func (s *Store) ListByStore(ctx context.Context, storeID primitive.ObjectID) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "sort_order", Value: 1},
		{Key: "created_at", Value: 1},
	})
	cur, err := s.c.Find(ctx, bson.M{"store_id": storeID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns a product by its ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// SetImage updates a product's image URL. Returns mongo.ErrNoDocuments
// when the product does not belong to the store or does not exist.
func (s *Store) SetImage(ctx context.Context, storeID, productID primitive.ObjectID, imageURL string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": productID, "store_id": storeID},
		bson.M{"$set": bson.M{"image": imageURL}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a product scoped to its store. Returns
// mongo.ErrNoDocuments when nothing matched, which callers surface as 404.
func (s *Store) Delete(ctx context.Context, storeID, productID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": productID, "store_id": storeID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteByStore removes all products of a store. Used when a store is
// deleted.
func (s *Store) DeleteByStore(ctx context.Context, storeID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"store_id": storeID})
	return err
}
