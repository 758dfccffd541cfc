package home

import (
	"testing"

	"go.uber.org/zap"

	"github.com/kiranapage/kiranapage/internal/testutil"
)

func TestIndex(t *testing.T) {
	testutil.MustBootTemplates(t)

	h := NewHandler(zap.NewNop())
	router := Routes(h)

	req := testutil.NewRequest("GET", "/")
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 200)
	rec.AssertContains(t, "Your store on WhatsApp")
	rec.AssertContains(t, "Create Your Store")
}
