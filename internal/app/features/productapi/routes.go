package productapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the product endpoints.
//
// When mounted at /api/stores/{storeId}/products:
//   - POST   /api/stores/{storeId}/products
//   - POST   /api/stores/{storeId}/products/{productId}/image
//   - DELETE /api/stores/{storeId}/products/{productId}
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Add)
	r.Post("/{productId}/image", h.UploadImage)
	r.Delete("/{productId}", h.Delete)

	return r
}
