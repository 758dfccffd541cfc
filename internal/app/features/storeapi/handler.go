// Package storeapi provides the store CRUD API.
//
// Endpoints:
//   - POST  /api/stores - Create a store (onboarding)
//   - GET   /api/stores/{id} - Store with products (dashboard)
//   - GET   /api/stores/by-whatsapp/{whatsapp} - Store with products (public)
//   - PATCH /api/stores/{id} - Partial update of info and/or design (owner)
//   - DELETE /api/stores/{id} - Remove a store and its products (owner)
package storeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	ownerstore "github.com/kiranapage/kiranapage/internal/app/store/owners"
	productstore "github.com/kiranapage/kiranapage/internal/app/store/products"
	storestore "github.com/kiranapage/kiranapage/internal/app/store/stores"
	"github.com/kiranapage/kiranapage/internal/app/system/auth"
	"github.com/kiranapage/kiranapage/internal/app/system/authutil"
	"github.com/kiranapage/kiranapage/internal/app/system/jsonutil"
	"github.com/kiranapage/kiranapage/internal/app/system/wa"
	"github.com/kiranapage/kiranapage/internal/domain/models"
	"github.com/kiranapage/kiranapage/internal/domain/page"
)

const duplicateWhatsappMsg = "A store with this WhatsApp number already exists."

// Handler handles store API requests.
type Handler struct {
	stores     *storestore.Store
	owners     *ownerstore.Store
	products   *productstore.Store
	sessions   *auth.SessionManager
	onboarding *auth.OnboardingCookies
	logger     *zap.Logger
}

// NewHandler creates a new storeapi handler.
func NewHandler(
	stores *storestore.Store,
	owners *ownerstore.Store,
	products *productstore.Store,
	sessions *auth.SessionManager,
	onboarding *auth.OnboardingCookies,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		stores:     stores,
		owners:     owners,
		products:   products,
		sessions:   sessions,
		onboarding: onboarding,
		logger:     logger,
	}
}

// storeWithProducts is the store shape returned by the GET endpoints.
type storeWithProducts struct {
	models.Store
	Products []models.Product `json:"products"`
}

// createResponse carries the owner token exactly once, at creation time.
type createResponse struct {
	models.Store
	OwnerToken string `json:"ownerToken"`
}

// Create handles POST /api/stores.
//
// Creating with an MPIN (the onboarding path) requires the signed
// onboarding-phone cookie set by verify-otp-onboarding, and the verified
// phone must match the store's WhatsApp number.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name       string          `json:"name"`
		Type       string          `json:"type"`
		Whatsapp   string          `json:"whatsapp"`
		MPIN       string          `json:"mpin"`
		TemplateID string          `json:"templateId"`
		PageConfig json.RawMessage `json:"pageConfig"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		jsonutil.BadRequest(w, "Store name is required")
		return
	}
	btype := strings.ToLower(strings.TrimSpace(in.Type))
	if !models.IsValidBusinessType(btype) {
		jsonutil.BadRequest(w, "Invalid business type")
		return
	}
	whatsapp := wa.Normalize(in.Whatsapp)
	if len(whatsapp) < 12 {
		jsonutil.BadRequest(w, "Enter a valid WhatsApp number")
		return
	}

	var doc *page.Document
	if len(in.PageConfig) > 0 && string(in.PageConfig) != "null" {
		d, err := page.Decode(in.PageConfig)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid page configuration")
			return
		}
		if err := d.Validate(); err != nil {
			jsonutil.BadRequest(w, "Invalid page configuration: "+err.Error())
			return
		}
		doc = &d
	}

	pendingPhone := h.onboarding.VerifiedPhone(r)
	if pendingPhone != "" && pendingPhone != whatsapp {
		jsonutil.Forbidden(w, "Phone number does not match the one verified by OTP.")
		return
	}

	var ownerID *primitive.ObjectID
	if in.MPIN != "" {
		if err := authutil.ValidateMPIN(in.MPIN); err != nil {
			jsonutil.BadRequest(w, err.Error())
			return
		}
		if pendingPhone == "" {
			jsonutil.Forbidden(w, "Verify your phone with OTP first, then create the shop.")
			return
		}
		if _, err := h.stores.GetByWhatsapp(r.Context(), whatsapp); err == nil {
			jsonutil.Conflict(w, duplicateWhatsappMsg)
			return
		}

		hash, err := authutil.HashMPIN(in.MPIN)
		if err != nil {
			h.logger.Error("create store: failed to hash mpin", zap.Error(err))
			jsonutil.InternalError(w, "Failed to create store")
			return
		}
		owner, err := h.owners.Upsert(r.Context(), whatsapp, hash)
		if err != nil {
			h.logger.Error("create store: failed to upsert owner", zap.Error(err))
			jsonutil.InternalError(w, "Failed to create store")
			return
		}
		ownerID = &owner.ID
	}

	token, err := auth.NewOwnerToken()
	if err != nil {
		h.logger.Error("create store: failed to generate owner token", zap.Error(err))
		jsonutil.InternalError(w, "Failed to create store")
		return
	}

	st, err := h.stores.Create(r.Context(), models.Store{
		Name:       name,
		Type:       btype,
		Whatsapp:   whatsapp,
		OwnerID:    ownerID,
		OwnerToken: token,
		TemplateID: in.TemplateID,
		PageConfig: doc,
	})
	if storestore.IsDuplicateKey(err) {
		jsonutil.Conflict(w, duplicateWhatsappMsg)
		return
	}
	if err != nil {
		h.logger.Error("create store failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to create store")
		return
	}

	if pendingPhone != "" {
		if err := h.sessions.CreateSession(w, r, st.ID, st.OwnerToken); err != nil {
			h.logger.Error("create store: failed to create session", zap.Error(err))
		}
		h.onboarding.Clear(w)
	}

	h.logger.Info("store created",
		zap.String("store_id", st.ID.Hex()),
		zap.String("whatsapp", st.Whatsapp),
		zap.Bool("onboarded", ownerID != nil))

	jsonutil.Created(w, createResponse{Store: st, OwnerToken: st.OwnerToken})
}

// GetByID handles GET /api/stores/{id}.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, "Store not found")
		return
	}

	st, err := h.stores.GetByID(r.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, "Store not found")
		return
	}
	if err != nil {
		h.logger.Error("get store failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load store")
		return
	}

	h.respondWithProducts(w, r, st)
}

// GetByWhatsapp handles GET /api/stores/by-whatsapp/{whatsapp}.
func (h *Handler) GetByWhatsapp(w http.ResponseWriter, r *http.Request) {
	whatsapp := wa.Normalize(chi.URLParam(r, "whatsapp"))

	st, err := h.stores.GetByWhatsapp(r.Context(), whatsapp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, "Store not found")
		return
	}
	if err != nil {
		h.logger.Error("get store by whatsapp failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to load store")
		return
	}

	h.respondWithProducts(w, r, st)
}

func (h *Handler) respondWithProducts(w http.ResponseWriter, r *http.Request, st models.Store) {
	products, err := h.products.ListByStore(r.Context(), st.ID)
	if err != nil {
		h.logger.Error("list products failed",
			zap.String("store_id", st.ID.Hex()),
			zap.Error(err))
		jsonutil.InternalError(w, "Failed to load store")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	jsonutil.OK(w, storeWithProducts{Store: st, Products: products})
}

// Update handles PATCH /api/stores/{id}.
//
// The caller must present the owner token, either in the
// X-Store-Owner-Token header or through the session cookie. A missing
// store and a token mismatch are indistinguishable in the response.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, "Store not found or access denied")
		return
	}

	var in struct {
		Name       *string         `json:"name"`
		Type       *string         `json:"type"`
		Whatsapp   *string         `json:"whatsapp"`
		TemplateID *string         `json:"templateId"`
		PageConfig json.RawMessage `json:"pageConfig"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		jsonutil.BadRequest(w, "Store name is required")
		return
	}
	if in.Type != nil && !models.IsValidBusinessType(strings.ToLower(strings.TrimSpace(*in.Type))) {
		jsonutil.BadRequest(w, "Invalid business type")
		return
	}
	if in.Whatsapp != nil {
		normalized := wa.Normalize(*in.Whatsapp)
		if len(normalized) < 12 {
			jsonutil.BadRequest(w, "Enter a valid WhatsApp number")
			return
		}
		in.Whatsapp = &normalized
	}

	var doc *page.Document
	if len(in.PageConfig) > 0 && string(in.PageConfig) != "null" {
		d, err := page.Decode(in.PageConfig)
		if err != nil {
			jsonutil.BadRequest(w, "Invalid page configuration")
			return
		}
		if err := d.Validate(); err != nil {
			jsonutil.BadRequest(w, "Invalid page configuration: "+err.Error())
			return
		}
		doc = &d
	}

	st, err := h.stores.GetByID(r.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, "Store not found or access denied")
		return
	}
	if err != nil {
		h.logger.Error("update store: lookup failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to update store")
		return
	}

	if !h.authorized(r, st) {
		jsonutil.NotFound(w, "Store not found or access denied")
		return
	}

	if in.Name != nil || in.Type != nil || in.Whatsapp != nil {
		err := h.stores.UpdateInfo(r.Context(), id, storestore.InfoUpdate{
			Name:     in.Name,
			Type:     in.Type,
			Whatsapp: in.Whatsapp,
		})
		if storestore.IsDuplicateKey(err) {
			jsonutil.Conflict(w, duplicateWhatsappMsg)
			return
		}
		if err != nil {
			h.logger.Error("update store info failed", zap.Error(err))
			jsonutil.InternalError(w, "Failed to update store")
			return
		}
	}

	if in.TemplateID != nil || doc != nil {
		if err := h.stores.UpdateDesign(r.Context(), id, in.TemplateID, doc); err != nil {
			h.logger.Error("update store design failed", zap.Error(err))
			jsonutil.InternalError(w, "Failed to update store")
			return
		}
	}

	updated, err := h.stores.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("update store: reload failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to update store")
		return
	}

	jsonutil.OK(w, updated)
}

// Delete handles DELETE /api/stores/{id}.
//
// Requires the same owner proof as Update. The store's products are
// removed first so a partial failure never leaves orphaned products
// behind a live store.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonutil.NotFound(w, "Store not found or access denied")
		return
	}

	st, err := h.stores.GetByID(r.Context(), id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, "Store not found or access denied")
		return
	}
	if err != nil {
		h.logger.Error("delete store: lookup failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete store")
		return
	}

	if !h.authorized(r, st) {
		jsonutil.NotFound(w, "Store not found or access denied")
		return
	}

	if err := h.products.DeleteByStore(r.Context(), id); err != nil {
		h.logger.Error("delete store: products cleanup failed",
			zap.String("store_id", id.Hex()),
			zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete store")
		return
	}
	if err := h.stores.Delete(r.Context(), id); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.logger.Error("delete store failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to delete store")
		return
	}

	h.logger.Info("store deleted",
		zap.String("store_id", id.Hex()),
		zap.String("whatsapp", st.Whatsapp))

	jsonutil.NoContent(w)
}

// authorized reports whether the request may modify the store: either the
// owner token header matches, or the session belongs to this store.
func (h *Handler) authorized(r *http.Request, st models.Store) bool {
	if token := r.Header.Get(auth.OwnerTokenHeader); token != "" {
		return token == st.OwnerToken
	}
	if owner, ok := auth.CurrentOwner(r); ok {
		return owner.StoreID == st.ID.Hex() && owner.OwnerToken == st.OwnerToken
	}
	return false
}
