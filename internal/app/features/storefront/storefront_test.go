package storefront

import (
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"go.uber.org/zap"

	productstore "github.com/kiranapage/kiranapage/internal/app/store/products"
	storestore "github.com/kiranapage/kiranapage/internal/app/store/stores"
	"github.com/kiranapage/kiranapage/internal/domain/models"
	"github.com/kiranapage/kiranapage/internal/domain/page"
	"github.com/kiranapage/kiranapage/internal/testutil"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

var wsRE = regexp.MustCompile(`\s+`)

func normalizeHTML(html string) string {
	return wsRE.ReplaceAllString(html, " ")
}

func newStorefront(t *testing.T) (*storestore.Store, *productstore.Store, http.Handler) {
	t.Helper()
	testutil.MustBootTemplates(t)
	db := testutil.SetupTestDB(t)
	stores := storestore.New(db)
	products := productstore.New(db)
	h := NewHandler(stores, products, zap.NewNop())
	return stores, products, Routes(h)
}

func seedStore(t *testing.T, stores *storestore.Store, doc *page.Document) models.Store {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	st, err := stores.Create(ctx, models.Store{
		Name:       "Sharma Sarees",
		Type:       "saree",
		Whatsapp:   "919876543210",
		OwnerToken: "tok-abc123",
		TemplateID: "minimal",
		PageConfig: doc,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return st
}

func TestShow_RendersSectionsInOrder(t *testing.T) {
	stores, products, router := newStorefront(t)
	doc := page.Document{Sections: []page.Section{
		{ID: "h1", Type: page.TypeHero, Props: map[string]any{"subtitle": "Finest silk in town"}},
		{ID: "g1", Type: page.TypeProductsGrid, Props: map[string]any{"columns": 2, "showPrices": true}},
		{ID: "c1", Type: page.TypeCTA, Props: map[string]any{}},
	}}
	st := seedStore(t, stores, &doc)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	for _, p := range []models.Product{
		{StoreID: st.ID, Name: "Banarasi Saree", Price: 1250, Image: "https://cdn.example.com/saree.jpg", SortOrder: 0},
		{StoreID: st.ID, Name: "Cotton Saree", Price: 499.5, Image: "https://cdn.example.com/cotton.jpg", SortOrder: 1},
	} {
		if _, err := products.Add(ctx, p); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	req := httptest.NewRequest("GET", "/919876543210", nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "Sharma Sarees")
	rec.AssertContains(t, "Finest silk in town")
	rec.AssertContains(t, "₹1250")
	rec.AssertContains(t, "₹499.5")
	rec.AssertContains(t, "Chat with Seller")

	snaps.WithConfig(snaps.Ext(".html")).MatchSnapshot(t, normalizeHTML(rec.Body.String()))
}

func TestShow_RawNumberFormatsResolve(t *testing.T) {
	stores, _, router := newStorefront(t)
	seedStore(t, stores, nil)

	// 10-digit and 0-prefixed forms normalize to the stored number.
	for _, slug := range []string{"9876543210", "09876543210", "919876543210"} {
		req := httptest.NewRequest("GET", "/"+slug, nil)
		rec := testutil.NewRecorder()
		router.ServeHTTP(rec.ResponseRecorder, req)
		rec.AssertStatus(t, 200)
	}
}

func TestShow_EmptyProductsState(t *testing.T) {
	stores, _, router := newStorefront(t)
	doc := page.Document{Sections: []page.Section{
		{ID: "g1", Type: page.TypeProductsGrid, Props: map[string]any{}},
	}}
	seedStore(t, stores, &doc)

	req := httptest.NewRequest("GET", "/919876543210", nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "No products yet")
}

func TestShow_UnknownSectionTypeSkipped(t *testing.T) {
	stores, _, router := newStorefront(t)
	doc := page.Document{Sections: []page.Section{
		{ID: "x1", Type: "carousel", Props: map[string]any{"title": "Legacy"}},
		{ID: "c1", Type: page.TypeCTA, Props: map[string]any{"title": "Talk to us"}},
	}}
	seedStore(t, stores, &doc)

	req := httptest.NewRequest("GET", "/919876543210", nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "Talk to us")
	if body := rec.Body.String(); regexp.MustCompile("Legacy").MatchString(body) {
		t.Error("unknown section type leaked into output")
	}
}

func TestShow_StoreNotFound(t *testing.T) {
	_, _, router := newStorefront(t)

	req := httptest.NewRequest("GET", "/910000000000", nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 404)
	rec.AssertContains(t, "Store Not Found")
}

func TestShow_FeatureItemsFromSavedTemplate(t *testing.T) {
	stores, _, router := newStorefront(t)
	doc, ok := page.Apply("classic")
	if !ok {
		t.Fatal("Apply(classic) not found")
	}
	seedStore(t, stores, &doc)

	req := httptest.NewRequest("GET", "/919876543210", nil)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	// Feature items are nested documents inside the props bag; they must
	// survive the BSON round-trip through the stores collection.
	rec.AssertContains(t, "Quality")
	rec.AssertContains(t, "Fast reply")
	rec.AssertContains(t, "Local")
	rec.AssertContains(t, "Best products")
}
