package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"

	"github.com/kiranapage/kiranapage/internal/app/system/wa"
)

// OnboardingCookieName holds the OTP-verified phone between the verify
// step and store creation.
const OnboardingCookieName = "kiranapage-onboarding-phone"

// OnboardingMaxAge bounds how long a verified phone stays usable for
// creating a store. After this the user must verify again.
const OnboardingMaxAge = 10 * time.Minute

// OnboardingCookies signs and reads the short-lived onboarding-phone cookie.
type OnboardingCookies struct {
	sc     *securecookie.SecureCookie
	secure bool
	logger *zap.Logger
}

// NewOnboardingCookies creates an OnboardingCookies using the same signing
// key policy as the session manager.
func NewOnboardingCookies(signingKey string, secure bool, logger *zap.Logger) (*OnboardingCookies, error) {
	if signingKey == "" {
		return nil, &SessionConfigError{Message: "onboarding cookie key is empty; provide ≥32 random chars"}
	}
	if secure && (len(signingKey) < 32 || isDefaultKey(signingKey)) {
		return nil, &SessionConfigError{
			Message: "onboarding cookie key is too weak for production; provide ≥32 random chars",
		}
	}

	sc := securecookie.New([]byte(signingKey), nil)
	sc.MaxAge(int(OnboardingMaxAge.Seconds()))

	return &OnboardingCookies{sc: sc, secure: secure, logger: logger}, nil
}

// SetVerifiedPhone records an OTP-verified phone in a signed cookie. The
// number is normalized before signing so the later comparison at store
// creation is format-insensitive.
func (oc *OnboardingCookies) SetVerifiedPhone(w http.ResponseWriter, mobile string) error {
	encoded, err := oc.sc.Encode(OnboardingCookieName, wa.Normalize(mobile))
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     OnboardingCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(OnboardingMaxAge.Seconds()),
		Secure:   oc.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// VerifiedPhone returns the phone from the onboarding cookie, or "" when
// the cookie is absent, expired, or fails signature validation.
func (oc *OnboardingCookies) VerifiedPhone(r *http.Request) string {
	c, err := r.Cookie(OnboardingCookieName)
	if err != nil {
		return ""
	}
	var phone string
	if err := oc.sc.Decode(OnboardingCookieName, c.Value, &phone); err != nil {
		oc.logger.Debug("onboarding cookie rejected", zap.Error(err))
		return ""
	}
	return phone
}

// Clear expires the onboarding cookie.
func (oc *OnboardingCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     OnboardingCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   oc.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
