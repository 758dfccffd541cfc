// Package authapi provides the owner authentication API.
//
// Endpoints:
//   - POST /api/auth/send-otp - Send an OTP to a mobile number (onboarding)
//   - POST /api/auth/verify-otp-onboarding - Verify the OTP and set the onboarding cookie
//   - POST /api/auth/login-with-mpin - Log in with mobile + MPIN, sets the session cookie
//   - GET  /api/auth/me - Current owner's store summary
//   - POST /api/auth/logout - Clear auth cookies
package authapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	ownerstore "github.com/kiranapage/kiranapage/internal/app/store/owners"
	"github.com/kiranapage/kiranapage/internal/app/store/ratelimit"
	storestore "github.com/kiranapage/kiranapage/internal/app/store/stores"
	"github.com/kiranapage/kiranapage/internal/app/system/auth"
	"github.com/kiranapage/kiranapage/internal/app/system/authutil"
	"github.com/kiranapage/kiranapage/internal/app/system/jsonutil"
	"github.com/kiranapage/kiranapage/internal/app/system/otp"
	"github.com/kiranapage/kiranapage/internal/app/system/wa"
	"github.com/kiranapage/kiranapage/internal/domain/models"
)

// OTPService sends and checks one-time codes. Satisfied by *otp.Client.
type OTPService interface {
	Configured() bool
	Send(ctx context.Context, mobile string) (otp.Result, error)
	Check(ctx context.Context, mobile, code string) (otp.Result, error)
}

// Handler handles authentication API requests.
type Handler struct {
	stores     *storestore.Store
	owners     *ownerstore.Store
	otp        OTPService
	limiter    *ratelimit.Store
	sessions   *auth.SessionManager
	onboarding *auth.OnboardingCookies
	logger     *zap.Logger
}

// NewHandler creates a new authapi handler.
func NewHandler(
	stores *storestore.Store,
	owners *ownerstore.Store,
	otpSvc OTPService,
	limiter *ratelimit.Store,
	sessions *auth.SessionManager,
	onboarding *auth.OnboardingCookies,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		stores:     stores,
		owners:     owners,
		otp:        otpSvc,
		limiter:    limiter,
		sessions:   sessions,
		onboarding: onboarding,
		logger:     logger,
	}
}

// storeSummary is the store shape returned by auth endpoints. Products are
// always empty here; the client fetches the full store separately.
type storeSummary struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Whatsapp string           `json:"whatsapp"`
	Products []models.Product `json:"products"`
}

func summarize(st models.Store) storeSummary {
	return storeSummary{
		ID:       st.ID.Hex(),
		Name:     st.Name,
		Type:     st.Type,
		Whatsapp: st.Whatsapp,
		Products: []models.Product{},
	}
}

// validMobile checks the raw length before normalization, matching the
// 10-15 character window accepted at signup.
func validMobile(raw string) bool {
	n := len(strings.TrimSpace(raw))
	return n >= 10 && n <= 15
}

func validMPINFormat(mpin string) bool {
	if len(mpin) != authutil.MPINLength {
		return false
	}
	for _, r := range mpin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SendOTP handles POST /api/auth/send-otp.
func (h *Handler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Mobile string `json:"mobile"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	if !validMobile(in.Mobile) {
		jsonutil.BadRequest(w, "Enter a valid mobile number")
		return
	}

	if !h.otp.Configured() {
		jsonutil.ServiceUnavailable(w, "OTP service is not configured. Set TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN, TWILIO_VERIFY_SERVICE_SID.")
		return
	}

	mobile := wa.Normalize(in.Mobile)
	result, err := h.otp.Send(r.Context(), mobile)
	if err != nil {
		h.logger.Error("otp send failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to send OTP")
		return
	}
	if !result.Success {
		jsonutil.BadRequest(w, result.Message)
		return
	}

	jsonutil.OK(w, map[string]any{"success": true})
}

// VerifyOTPOnboarding handles POST /api/auth/verify-otp-onboarding.
// On success it sets the signed onboarding-phone cookie so that a
// subsequent POST /api/stores with an MPIN is allowed.
func (h *Handler) VerifyOTPOnboarding(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Mobile string `json:"mobile"`
		OTP    string `json:"otp"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	if !validMobile(in.Mobile) {
		jsonutil.BadRequest(w, "Enter a valid mobile number")
		return
	}
	code := strings.TrimSpace(in.OTP)
	if len(code) < 4 || len(code) > 9 {
		jsonutil.BadRequest(w, "Enter the code you received")
		return
	}

	if !h.otp.Configured() {
		jsonutil.ServiceUnavailable(w, "OTP service is not configured.")
		return
	}

	mobile := wa.Normalize(in.Mobile)
	result, err := h.otp.Check(r.Context(), mobile, code)
	if err != nil {
		h.logger.Error("otp check failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to verify OTP")
		return
	}
	if !result.Success {
		jsonutil.BadRequest(w, result.Message)
		return
	}

	if err := h.onboarding.SetVerifiedPhone(w, mobile); err != nil {
		h.logger.Error("failed to set onboarding cookie", zap.Error(err))
		jsonutil.InternalError(w, "Failed to verify OTP")
		return
	}

	jsonutil.OK(w, map[string]any{"success": true, "mobile": mobile})
}

// LoginWithMPIN handles POST /api/auth/login-with-mpin.
// Failed attempts are rate limited per mobile with a lockout window.
func (h *Handler) LoginWithMPIN(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Mobile string `json:"mobile"`
		MPIN   string `json:"mpin"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	if !validMobile(in.Mobile) {
		jsonutil.BadRequest(w, "Enter a valid mobile number")
		return
	}
	if !validMPINFormat(in.MPIN) {
		jsonutil.BadRequest(w, "MPIN must be exactly 6 digits")
		return
	}

	mobile := wa.Normalize(in.Mobile)

	allowed, _, lockedUntil := h.limiter.CheckAllowed(r.Context(), mobile)
	if !allowed {
		jsonutil.TooManyRequests(w, lockoutMessage(lockedUntil))
		return
	}

	st, err := h.stores.GetByWhatsapp(r.Context(), mobile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, "No shop linked to this number. Sign up first.")
		return
	}
	if err != nil {
		h.logger.Error("login: store lookup failed", zap.Error(err))
		jsonutil.InternalError(w, "Login failed")
		return
	}
	if st.OwnerID == nil {
		jsonutil.BadRequest(w, "This shop has no owner set. Please contact support.")
		return
	}

	owner, err := h.owners.GetByID(r.Context(), *st.OwnerID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.logger.Error("login: owner lookup failed", zap.Error(err))
		jsonutil.InternalError(w, "Login failed")
		return
	}
	if err != nil || !authutil.CheckMPIN(in.MPIN, owner.MPINHash) {
		lockedOut, until := h.limiter.RecordFailure(r.Context(), mobile)
		if lockedOut {
			jsonutil.TooManyRequests(w, lockoutMessage(until))
			return
		}
		jsonutil.Unauthorized(w, "Invalid MPIN.")
		return
	}

	if err := h.limiter.ClearOnSuccess(r.Context(), mobile); err != nil {
		h.logger.Warn("login: failed to clear rate limit", zap.Error(err))
	}

	if err := h.sessions.CreateSession(w, r, st.ID, st.OwnerToken); err != nil {
		h.logger.Error("login: failed to create session", zap.Error(err))
		jsonutil.InternalError(w, "Login failed")
		return
	}

	jsonutil.OK(w, map[string]any{
		"store":      summarize(st),
		"ownerToken": st.OwnerToken,
	})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.CurrentOwner(r)
	if !ok {
		jsonutil.Unauthorized(w, "Not signed in")
		return
	}

	id := owner.StoreObjectID()
	if id.IsZero() {
		jsonutil.Unauthorized(w, "Invalid session")
		return
	}

	st, err := h.stores.GetByID(r.Context(), id)
	if err != nil || st.OwnerToken != owner.OwnerToken {
		jsonutil.Unauthorized(w, "Session expired")
		return
	}

	jsonutil.OK(w, map[string]any{
		"store":      summarize(st),
		"ownerToken": st.OwnerToken,
	})
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.DestroySession(w, r)
	h.onboarding.Clear(w)
	jsonutil.NoContent(w)
}

func lockoutMessage(until *time.Time) string {
	if until == nil {
		return "Too many failed attempts. Please try again later."
	}
	mins := int(time.Until(*until).Minutes()) + 1
	if mins < 1 {
		mins = 1
	}
	return fmt.Sprintf("Too many failed attempts. Try again in %d minutes.", mins)
}
