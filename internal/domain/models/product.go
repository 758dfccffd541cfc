// internal/domain/models/product.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultProductImage is used when a product is created without an image.
const DefaultProductImage = "https://source.unsplash.com/random/400x400/?product"

// Product is one item listed on a store page. Prices are rupees; the
// storefront renders them with the ₹ symbol.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StoreID     primitive.ObjectID `bson:"store_id" json:"storeId"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Image       string             `bson:"image" json:"image"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	SortOrder   float64            `bson:"sort_order" json:"sortOrder"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
