package storeapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the store endpoints.
//
// When mounted at /api/stores:
//   - POST  /api/stores
//   - GET   /api/stores/by-whatsapp/{whatsapp}
//   - GET   /api/stores/{id}
//   - PATCH /api/stores/{id}
//   - DELETE /api/stores/{id}
//
// by-whatsapp is registered before {id} so the literal segment wins.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/by-whatsapp/{whatsapp}", h.GetByWhatsapp)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}
