// Package storefront renders the public store page at /s/{whatsapp}.
package storefront

import (
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	productstore "github.com/kiranapage/kiranapage/internal/app/store/products"
	storestore "github.com/kiranapage/kiranapage/internal/app/store/stores"
	"github.com/kiranapage/kiranapage/internal/app/system/viewdata"
	"github.com/kiranapage/kiranapage/internal/app/system/wa"
)

// Handler renders public storefront pages.
type Handler struct {
	stores   *storestore.Store
	products *productstore.Store
	logger   *zap.Logger
}

// NewHandler creates a new storefront Handler.
func NewHandler(stores *storestore.Store, products *productstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		stores:   stores,
		products: products,
		logger:   logger,
	}
}

// Routes returns a chi.Router with the storefront route mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/{whatsapp}", h.Show)
	return r
}

// ShowVM is the view model for a storefront page.
type ShowVM struct {
	viewdata.BaseVM
	StoreName string
	ChatURL   string // floating chat-with-seller button
	Sections  []SectionVM
}

// Show renders GET /s/{whatsapp}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	whatsapp := wa.Normalize(chi.URLParam(r, "whatsapp"))

	st, err := h.stores.GetByWhatsapp(r.Context(), whatsapp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		vm := viewdata.New(r)
		vm.Title = "Store Not Found"
		w.WriteHeader(http.StatusNotFound)
		templates.Render(w, r, "storefront/not_found", vm)
		return
	}
	if err != nil {
		h.logger.Error("storefront: store lookup failed",
			zap.String("whatsapp", whatsapp),
			zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	products, err := h.products.ListByStore(r.Context(), st.ID)
	if err != nil {
		h.logger.Error("storefront: product list failed",
			zap.String("store_id", st.ID.Hex()),
			zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vm := ShowVM{
		BaseVM:    viewdata.New(r),
		StoreName: st.Name,
		ChatURL:   wa.ChatLink(st.Whatsapp, ""),
		Sections:  buildSections(st, products),
	}
	vm.Title = st.Name

	templates.Render(w, r, "storefront/show", vm)
}
