// internal/domain/models/store.go
package models

// Terminology: Store Identifiers
//   - StoreID / storeID / store_id: The MongoDB ObjectID (_id) of a store record
//   - Whatsapp: The normalized WhatsApp number, which doubles as the public
//     storefront slug (/s/{whatsapp})

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kiranapage/kiranapage/internal/domain/page"
)

// Store represents one merchant storefront.
//
// Ownership fields:
//   - OwnerID: The store_owners record that holds the MPIN for this store
//   - OwnerToken: Bearer token handed out at creation; the X-Store-Owner-Token
//     header must match it for writes
type Store struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	NameCI   string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Type     string             `bson:"type" json:"type"` // one of BusinessTypes
	Whatsapp string             `bson:"whatsapp" json:"whatsapp"` // normalized digits, 91-prefixed

	OwnerID    *primitive.ObjectID `bson:"owner_id,omitempty" json:"-"`
	OwnerToken string              `bson:"owner_token,omitempty" json:"-"` // never in JSON; returned once at creation

	TemplateID string         `bson:"template_id,omitempty" json:"templateId,omitempty"`
	PageConfig *page.Document `bson:"page_config,omitempty" json:"pageConfig,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// PageDocument returns the stored page document, or the default document
// when the store has none yet.
func (s *Store) PageDocument() page.Document {
	if s.PageConfig == nil {
		return page.DefaultDocument()
	}
	return *s.PageConfig
}

// Business types
const (
	BusinessSaree       = "saree"
	BusinessFood        = "food"
	BusinessBeauty      = "beauty"
	BusinessElectronics = "electronics"
	BusinessHandmade    = "handmade"
	BusinessOther       = "other"
)

// BusinessTypes returns all valid business types.
func BusinessTypes() []string {
	return []string{
		BusinessSaree,
		BusinessFood,
		BusinessBeauty,
		BusinessElectronics,
		BusinessHandmade,
		BusinessOther,
	}
}

// IsValidBusinessType checks if a business type is valid.
func IsValidBusinessType(t string) bool {
	for _, b := range BusinessTypes() {
		if b == t {
			return true
		}
	}
	return false
}
