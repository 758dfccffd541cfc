package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const testKey = "0123456789abcdef0123456789abcdef"

func newTestSessionManager(t *testing.T) *SessionManager {
	t.Helper()
	sm, err := NewSessionManager(testKey, "", "", 30*24*time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	return sm
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := NewSessionManager("", "", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("empty key should fail")
	}
}

func TestNewSessionManager_WeakKeyInProduction(t *testing.T) {
	if _, err := NewSessionManager("short", "", "", time.Hour, true, zap.NewNop()); err == nil {
		t.Error("weak key should fail in secure mode")
	}
	if _, err := NewSessionManager("this-is-the-default-example-key-padded", "", "", time.Hour, true, zap.NewNop()); err == nil {
		t.Error("default-looking key should fail in secure mode")
	}
}

func TestNewSessionManager_WeakKeyInDev(t *testing.T) {
	// Dev mode warns but allows
	if _, err := NewSessionManager("short", "", "", time.Hour, false, zap.NewNop()); err != nil {
		t.Errorf("weak key in dev mode should be allowed, got %v", err)
	}
}

func TestSessionName_Default(t *testing.T) {
	sm := newTestSessionManager(t)
	if sm.SessionName() != "kiranapage-session" {
		t.Errorf("SessionName() = %q", sm.SessionName())
	}
}

func TestCreateAndLoadSession(t *testing.T) {
	sm := newTestSessionManager(t)
	storeID := primitive.NewObjectID()

	// Create the session
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login-with-mpin", nil)
	if err := sm.CreateSession(rec, req, storeID, "token-abc"); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("CreateSession() set no cookies")
	}

	// Replay the cookie through the middleware
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	var got *OwnerSession
	handler := sm.LoadOwnerSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentOwner(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("no owner session in context")
	}
	if got.StoreID != storeID.Hex() {
		t.Errorf("StoreID = %q, want %q", got.StoreID, storeID.Hex())
	}
	if got.OwnerToken != "token-abc" {
		t.Errorf("OwnerToken = %q", got.OwnerToken)
	}
	if got.StoreObjectID() != storeID {
		t.Errorf("StoreObjectID() = %v", got.StoreObjectID())
	}
}

func TestLoadOwnerSession_NoCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	found := true
	handler := sm.LoadOwnerSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentOwner(r)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if found {
		t.Error("session should not exist without a cookie")
	}
}

func TestDestroySession(t *testing.T) {
	sm := newTestSessionManager(t)
	storeID := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if err := sm.CreateSession(rec, req, storeID, "tok"); err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()
	sm.DestroySession(rec2, req)

	for _, c := range rec2.Result().Cookies() {
		if c.Name == sm.SessionName() && c.MaxAge >= 0 {
			t.Errorf("logout cookie MaxAge = %d, want negative", c.MaxAge)
		}
	}
}

func TestRequireOwner(t *testing.T) {
	sm := newTestSessionManager(t)

	called := false
	handler := sm.RequireOwner(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	// Without a session: 401
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler should not run without a session")
	}

	// With a session: pass through
	req := WithTestOwner(httptest.NewRequest(http.MethodGet, "/", nil), &OwnerSession{StoreID: "x"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Error("handler should run with a session")
	}
}

func TestNewOwnerToken(t *testing.T) {
	a, err := NewOwnerToken()
	if err != nil {
		t.Fatalf("NewOwnerToken() error = %v", err)
	}
	b, err := NewOwnerToken()
	if err != nil {
		t.Fatalf("NewOwnerToken() error = %v", err)
	}
	if len(a) != 48 {
		t.Errorf("token length = %d, want 48 hex chars", len(a))
	}
	if a == b {
		t.Error("two tokens should differ")
	}
}

func TestOnboardingCookies_RoundTrip(t *testing.T) {
	oc, err := NewOnboardingCookies(testKey, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOnboardingCookies() error = %v", err)
	}

	rec := httptest.NewRecorder()
	if err := oc.SetVerifiedPhone(rec, "+91 98765 43210"); err != nil {
		t.Fatalf("SetVerifiedPhone() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/stores", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	// Stored value is normalized
	if got := oc.VerifiedPhone(req); got != "919876543210" {
		t.Errorf("VerifiedPhone() = %q, want normalized number", got)
	}
}

func TestOnboardingCookies_MissingOrTampered(t *testing.T) {
	oc, err := NewOnboardingCookies(testKey, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOnboardingCookies() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if got := oc.VerifiedPhone(req); got != "" {
		t.Errorf("VerifiedPhone() = %q, want empty without cookie", got)
	}

	req.AddCookie(&http.Cookie{Name: OnboardingCookieName, Value: "garbage"})
	if got := oc.VerifiedPhone(req); got != "" {
		t.Errorf("VerifiedPhone() = %q, want empty for tampered cookie", got)
	}
}

func TestOnboardingCookies_Clear(t *testing.T) {
	oc, err := NewOnboardingCookies(testKey, false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewOnboardingCookies() error = %v", err)
	}

	rec := httptest.NewRecorder()
	oc.Clear(rec)

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == OnboardingCookieName {
			found = true
			if c.MaxAge >= 0 {
				t.Errorf("MaxAge = %d, want negative", c.MaxAge)
			}
		}
	}
	if !found {
		t.Error("Clear() should set an expiring cookie")
	}
}
