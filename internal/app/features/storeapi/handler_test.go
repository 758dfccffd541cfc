package storeapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	ownerstore "github.com/kiranapage/kiranapage/internal/app/store/owners"
	productstore "github.com/kiranapage/kiranapage/internal/app/store/products"
	storestore "github.com/kiranapage/kiranapage/internal/app/store/stores"
	"github.com/kiranapage/kiranapage/internal/app/system/auth"
	"github.com/kiranapage/kiranapage/internal/domain/models"
	"github.com/kiranapage/kiranapage/internal/testutil"
)

const testSessionKey = "f3c9a1d75e2b80461c7f3a9d25e8b046"
const testOnboardingKey = "2e8b04617f3c9a1d5e2b8046f3c9a1d7"

type testEnv struct {
	h          *Handler
	stores     *storestore.Store
	products   *productstore.Store
	onboarding *auth.OnboardingCookies
	router     http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	sessions, err := auth.NewSessionManager(testSessionKey, "", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	onboarding, err := auth.NewOnboardingCookies(testOnboardingKey, false, logger)
	if err != nil {
		t.Fatalf("NewOnboardingCookies() error = %v", err)
	}

	stores := storestore.New(db)
	owners := ownerstore.New(db)
	products := productstore.New(db)
	h := NewHandler(stores, owners, products, sessions, onboarding, logger)

	return &testEnv{
		h:          h,
		stores:     stores,
		products:   products,
		onboarding: onboarding,
		router:     Routes(h),
	}
}

// withOnboardingCookie attaches a signed onboarding cookie for mobile.
func (e *testEnv) withOnboardingCookie(t *testing.T, req *http.Request, mobile string) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := e.onboarding.SetVerifiedPhone(rec, mobile); err != nil {
		t.Fatalf("SetVerifiedPhone() error = %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func (e *testEnv) seedStore(t *testing.T, whatsapp string) models.Store {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st, err := e.stores.Create(ctx, models.Store{
		Name:       "Sharma Store",
		Type:       "saree",
		Whatsapp:   whatsapp,
		OwnerToken: "tok-abc123",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return st
}

func TestCreate_Anonymous(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/",
		strings.NewReader(`{"name":"Sharma Store","type":"saree","whatsapp":"9876543210"}`))
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 201)

	var out createResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if out.Whatsapp != "919876543210" {
		t.Errorf("whatsapp = %q, want normalized", out.Whatsapp)
	}
	if out.OwnerToken == "" {
		t.Error("ownerToken missing from creation response")
	}
	// No onboarding cookie, so no session is created.
	for _, c := range rec.Result().Cookies() {
		if c.Name == "kiranapage-session" && c.Value != "" {
			t.Error("session cookie set without onboarding")
		}
	}
}

func TestCreate_InvalidType(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/",
		strings.NewReader(`{"name":"X","type":"grocery","whatsapp":"9876543210"}`))
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 400)
	rec.AssertContains(t, "business type")
}

func TestCreate_MPINWithoutOnboardingCookie(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/",
		strings.NewReader(`{"name":"X","type":"food","whatsapp":"9876543210","mpin":"482916"}`))
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 403)
	rec.AssertContains(t, "Verify your phone")
}

func TestCreate_OnboardingPhoneMismatch(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/",
		strings.NewReader(`{"name":"X","type":"food","whatsapp":"9876543210","mpin":"482916"}`))
	req = env.withOnboardingCookie(t, req, "919812345678")
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 403)
	rec.AssertContains(t, "does not match")
}

func TestCreate_Onboarded(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/",
		strings.NewReader(`{"name":"Sharma Store","type":"saree","whatsapp":"9876543210","mpin":"482916"}`))
	req = env.withOnboardingCookie(t, req, "9876543210")
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 201)

	// Session cookie set, onboarding cookie cleared.
	var sawSession, clearedOnboarding bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "kiranapage-session" {
			sawSession = true
		}
		if c.Name == auth.OnboardingCookieName && c.MaxAge < 0 {
			clearedOnboarding = true
		}
	}
	if !sawSession {
		t.Error("expected session cookie after onboarding")
	}
	if !clearedOnboarding {
		t.Error("expected onboarding cookie to be cleared")
	}
}

func TestCreate_TrivialMPIN(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("POST", "/",
		strings.NewReader(`{"name":"X","type":"food","whatsapp":"9876543210","mpin":"123456"}`))
	req = env.withOnboardingCookie(t, req, "9876543210")
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 400)
}

func TestCreate_DuplicateWhatsapp(t *testing.T) {
	env := newTestEnv(t)
	env.seedStore(t, "919876543210")

	req := httptest.NewRequest("POST", "/",
		strings.NewReader(`{"name":"Other","type":"food","whatsapp":"9876543210"}`))
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 409)
	rec.AssertContains(t, "already exists")
}

func TestGetByID_WithProducts(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := env.products.Add(ctx, models.Product{StoreID: st.ID, Name: "Rice", Price: 99}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/"+st.ID.Hex(), nil)
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)

	var out storeWithProducts
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if len(out.Products) != 1 || out.Products[0].Name != "Rice" {
		t.Errorf("products = %+v, want the seeded product", out.Products)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/64a000000000000000000000", nil)
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 404)
}

func TestGetByWhatsapp_NormalizesParam(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	// Raw 10-digit form in the URL still finds the store.
	req := httptest.NewRequest("GET", "/by-whatsapp/9876543210", nil)
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, st.ID.Hex())
}

func TestUpdate_WithHeaderToken(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	req := httptest.NewRequest("PATCH", "/"+st.ID.Hex(),
		strings.NewReader(`{"name":"Renamed"}`))
	req.Header.Set(auth.OwnerTokenHeader, "tok-abc123")
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "Renamed")
}

func TestUpdate_WrongToken(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	req := httptest.NewRequest("PATCH", "/"+st.ID.Hex(),
		strings.NewReader(`{"name":"Renamed"}`))
	req.Header.Set(auth.OwnerTokenHeader, "wrong-token")
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 404)
	rec.AssertContains(t, "access denied")
}

func TestUpdate_NoCredentials(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	req := httptest.NewRequest("PATCH", "/"+st.ID.Hex(),
		strings.NewReader(`{"name":"Renamed"}`))
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 404)
}

func TestUpdate_WithSession(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	req := httptest.NewRequest("PATCH", "/"+st.ID.Hex(),
		strings.NewReader(`{"name":"Renamed"}`))
	req = testutil.WithOwner(req, testutil.TestOwner{
		StoreID:    st.ID.Hex(),
		OwnerToken: st.OwnerToken,
	})
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
}

func TestUpdate_Design(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	body := `{"templateId":"boutique","pageConfig":{"sections":[{"id":"s1","type":"hero","props":{"title":"Hi"}}]}}`
	req := httptest.NewRequest("PATCH", "/"+st.ID.Hex(), strings.NewReader(body))
	req.Header.Set(auth.OwnerTokenHeader, st.OwnerToken)
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	got, err := env.stores.GetByID(ctx, st.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.TemplateID != "boutique" {
		t.Errorf("TemplateID = %q", got.TemplateID)
	}
	if got.PageConfig == nil || len(got.PageConfig.Sections) != 1 {
		t.Fatalf("PageConfig = %+v, want one section", got.PageConfig)
	}
}

func TestDelete_RemovesStoreAndProducts(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := env.products.Add(ctx, models.Product{StoreID: st.ID, Name: "Rice", Price: 99}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	req := httptest.NewRequest("DELETE", "/"+st.ID.Hex(), nil)
	req.Header.Set(auth.OwnerTokenHeader, st.OwnerToken)
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 204)

	if _, err := env.stores.GetByID(ctx, st.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByID() after delete err = %v, want ErrNoDocuments", err)
	}
	products, err := env.products.ListByStore(ctx, st.ID)
	if err != nil {
		t.Fatalf("ListByStore() error = %v", err)
	}
	if len(products) != 0 {
		t.Errorf("len(products) = %d after delete, want 0", len(products))
	}
}

func TestDelete_WrongToken(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	req := httptest.NewRequest("DELETE", "/"+st.ID.Hex(), nil)
	req.Header.Set(auth.OwnerTokenHeader, "wrong-token")
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 404)
	rec.AssertContains(t, "access denied")

	// Store untouched.
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if _, err := env.stores.GetByID(ctx, st.ID); err != nil {
		t.Errorf("GetByID() error = %v, store should still exist", err)
	}
}

func TestDelete_UnknownStore(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("DELETE", "/64a000000000000000000000", nil)
	req.Header.Set(auth.OwnerTokenHeader, "tok-abc123")
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 404)
}

func TestUpdate_InvalidPageConfig(t *testing.T) {
	env := newTestEnv(t)
	st := env.seedStore(t, "919876543210")

	// Unknown section type is rejected at the save boundary.
	body := `{"pageConfig":{"sections":[{"id":"s1","type":"carousel","props":{}}]}}`
	req := httptest.NewRequest("PATCH", "/"+st.ID.Hex(), strings.NewReader(body))
	req.Header.Set(auth.OwnerTokenHeader, st.OwnerToken)
	rec := testutil.NewRecorder()
	env.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 400)
	rec.AssertContains(t, "page configuration")
}
