// Package productapi provides the product API.
//
// Endpoints (owner-authenticated via X-Store-Owner-Token or session):
//   - POST   /api/stores/{storeId}/products - Add a product
//   - POST   /api/stores/{storeId}/products/{productId}/image - Upload a product image
//   - DELETE /api/stores/{storeId}/products/{productId} - Delete a product
package productapi

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	productstore "github.com/kiranapage/kiranapage/internal/app/store/products"
	storestore "github.com/kiranapage/kiranapage/internal/app/store/stores"
	"github.com/kiranapage/kiranapage/internal/app/system/auth"
	"github.com/kiranapage/kiranapage/internal/app/system/jsonutil"
	"github.com/kiranapage/kiranapage/internal/domain/models"
)

// maxImageSize limits product image uploads.
const maxImageSize = 8 << 20 // 8MB

// Handler handles product API requests.
type Handler struct {
	stores      *storestore.Store
	products    *productstore.Store
	fileStorage storage.Store
	logger      *zap.Logger
}

// NewHandler creates a new productapi handler.
func NewHandler(
	stores *storestore.Store,
	products *productstore.Store,
	fileStorage storage.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		stores:      stores,
		products:    products,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

// Add handles POST /api/stores/{storeId}/products.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	st, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	var in struct {
		Name        string  `json:"name"`
		Price       float64 `json:"price"`
		Image       string  `json:"image"`
		Description string  `json:"description"`
		SortOrder   float64 `json:"sortOrder"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		jsonutil.BadRequest(w, "Product name is required")
		return
	}
	if in.Price <= 0 {
		jsonutil.BadRequest(w, "Price must be greater than zero")
		return
	}

	p, err := h.products.Add(r.Context(), models.Product{
		StoreID:     st.ID,
		Name:        name,
		Price:       in.Price,
		Image:       in.Image,
		Description: strings.TrimSpace(in.Description),
		SortOrder:   in.SortOrder,
	})
	if err != nil {
		h.logger.Error("add product failed",
			zap.String("store_id", st.ID.Hex()),
			zap.Error(err))
		jsonutil.InternalError(w, "Failed to add product")
		return
	}

	jsonutil.Created(w, p)
}

// UploadImage handles POST /api/stores/{storeId}/products/{productId}/image.
// The image is read from the "image" multipart field, stored under a
// unique path, and the product's image URL is updated.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	st, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	productID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "productId"))
	if err != nil {
		jsonutil.NotFound(w, "Product not found or access denied")
		return
	}

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		jsonutil.BadRequest(w, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		jsonutil.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// products/{storeId}/YYYY/MM/uuid-ext
	now := time.Now().UTC()
	ext := filepath.Ext(header.Filename)
	path := fmt.Sprintf("products/%s/%04d/%02d/%s%s",
		st.ID.Hex(), now.Year(), now.Month(), uuid.New().String()[:8], ext)

	opts := &storage.PutOptions{ContentType: contentType}
	if err := h.fileStorage.Put(r.Context(), path, file, opts); err != nil {
		h.logger.Error("product image upload failed",
			zap.String("store_id", st.ID.Hex()),
			zap.String("product_id", productID.Hex()),
			zap.Error(err))
		jsonutil.InternalError(w, "Failed to upload image")
		return
	}

	url := h.fileStorage.URL(path)
	if err := h.products.SetImage(r.Context(), st.ID, productID, url); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "Product not found or access denied")
			return
		}
		h.logger.Error("product image update failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to upload image")
		return
	}

	p, err := h.products.GetByID(r.Context(), productID)
	if err != nil {
		h.logger.Error("product reload failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to upload image")
		return
	}

	jsonutil.OK(w, p)
}

// Delete handles DELETE /api/stores/{storeId}/products/{productId}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	st, ok := h.ownedStore(w, r)
	if !ok {
		return
	}

	productID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "productId"))
	if err != nil {
		jsonutil.NotFound(w, "Product not found or access denied")
		return
	}

	if err := h.products.Delete(r.Context(), st.ID, productID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.NotFound(w, "Product not found or access denied")
			return
		}
		h.logger.Error("delete product failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete product")
		return
	}

	jsonutil.NoContent(w)
}

// ownedStore resolves {storeId} and enforces owner access. A store without
// an owner token is open, matching stores created before tokens existed.
func (h *Handler) ownedStore(w http.ResponseWriter, r *http.Request) (models.Store, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "storeId"))
	if err != nil {
		jsonutil.NotFound(w, "Store not found")
		return models.Store{}, false
	}

	st, err := h.stores.GetByID(r.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, "Store not found")
		return models.Store{}, false
	}
	if err != nil {
		h.logger.Error("store lookup failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load store")
		return models.Store{}, false
	}

	if st.OwnerToken == "" {
		return st, true
	}

	if token := r.Header.Get(auth.OwnerTokenHeader); token != "" {
		if token == st.OwnerToken {
			return st, true
		}
		jsonutil.Forbidden(w, "Access denied")
		return models.Store{}, false
	}
	if owner, ok := auth.CurrentOwner(r); ok {
		if owner.StoreID == st.ID.Hex() && owner.OwnerToken == st.OwnerToken {
			return st, true
		}
	}

	jsonutil.Forbidden(w, "Access denied")
	return models.Store{}, false
}
