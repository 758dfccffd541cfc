package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kiranapage/kiranapage/internal/app/system/auth"
)

// TestOwner represents an owner session for testing HTTP handlers.
type TestOwner struct {
	StoreID    string
	OwnerToken string
}

// NewTestOwner returns a TestOwner with a fresh store id and token.
func NewTestOwner() TestOwner {
	return TestOwner{
		StoreID:    primitive.NewObjectID().Hex(),
		OwnerToken: "test-owner-token",
	}
}

// WithOwner adds an owner session to the request context for testing
// authenticated handlers. This bypasses the session middleware and injects
// the session directly.
func WithOwner(r *http.Request, owner TestOwner) *http.Request {
	return auth.WithTestOwner(r, &auth.OwnerSession{
		StoreID:    owner.StoreID,
		OwnerToken: owner.OwnerToken,
	})
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewOwnerRequest creates an HTTP request with an owner session in context.
func NewOwnerRequest(method, target string, owner TestOwner) *http.Request {
	return WithOwner(httptest.NewRequest(method, target, nil), owner)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	body := r.Body.String()
	if !strings.Contains(body, expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
