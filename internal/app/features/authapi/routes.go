package authapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the authentication endpoints.
//
// When mounted at /api/auth:
//   - POST /api/auth/send-otp
//   - POST /api/auth/verify-otp-onboarding
//   - POST /api/auth/login-with-mpin
//   - GET  /api/auth/me
//   - POST /api/auth/logout
//
// CORS and session loading are applied by the parent /api router.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/send-otp", h.SendOTP)
	r.Post("/verify-otp-onboarding", h.VerifyOTPOnboarding)
	r.Post("/login-with-mpin", h.LoginWithMPIN)
	r.Get("/me", h.Me)
	r.Post("/logout", h.Logout)

	return r
}
