// internal/app/store/stores/storestore.go
package storestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kiranapage/kiranapage/internal/app/system/normalize"
	"github.com/kiranapage/kiranapage/internal/domain/models"
	"github.com/kiranapage/kiranapage/internal/domain/page"
)

// Store provides access to the stores collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new store store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("stores")}
}

// IsDuplicateKey reports whether err is a Mongo unique-index violation.
// Creating a store with an already-claimed WhatsApp number surfaces this.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), "E11000")
}

// Create inserts a new store. Name and type are normalized here; the
// whatsapp number must already be normalized by the caller.
func (s *Store) Create(ctx context.Context, st models.Store) (models.Store, error) {
	now := time.Now().UTC()
	st.ID = primitive.NewObjectID()
	st.Name = normalize.StoreName(st.Name)
	st.NameCI = text.Fold(st.Name)
	st.Type = normalize.BusinessType(st.Type)
	st.CreatedAt = now
	st.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, st); err != nil {
		return models.Store{}, err
	}
	return st, nil
}

// GetByID returns a store by its ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Store, error) {
	var st models.Store
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st)
	if err != nil {
		return models.Store{}, err
	}
	return st, nil
}

// GetByWhatsapp returns a store by its normalized WhatsApp number.
func (s *Store) GetByWhatsapp(ctx context.Context, whatsapp string) (models.Store, error) {
	var st models.Store
	err := s.c.FindOne(ctx, bson.M{"whatsapp": whatsapp}).Decode(&st)
	if err != nil {
		return models.Store{}, err
	}
	return st, nil
}

// InfoUpdate holds the optional basic-info fields of a partial update.
// Nil means "leave unchanged".
type InfoUpdate struct {
	Name     *string
	Type     *string
	Whatsapp *string // must already be normalized
}

// UpdateInfo applies a partial update of name/type/whatsapp.
// Returns mongo.ErrNoDocuments when the store does not exist.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd InfoUpdate) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		name := normalize.StoreName(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Type != nil {
		set["type"] = normalize.BusinessType(*upd.Type)
	}
	if upd.Whatsapp != nil {
		set["whatsapp"] = *upd.Whatsapp
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateDesign replaces the store's template id and/or page document.
// The page document is stored whole; there is no per-section patching.
// Returns mongo.ErrNoDocuments when the store does not exist.
func (s *Store) UpdateDesign(ctx context.Context, id primitive.ObjectID, templateID *string, doc *page.Document) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	if templateID != nil {
		set["template_id"] = normalize.TemplateID(*templateID)
	}
	if doc != nil {
		set["page_config"] = doc
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a store. Products are deleted separately by the caller.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
