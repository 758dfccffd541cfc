package errors

import (
	"testing"

	"github.com/kiranapage/kiranapage/internal/testutil"
)

func TestNotFound(t *testing.T) {
	testutil.MustBootTemplates(t)

	h := NewHandler()
	req := testutil.NewRequest("GET", "/missing")
	rec := testutil.NewRecorder()
	h.NotFound(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 404)
	rec.AssertContains(t, "404")
}

func TestInternalError(t *testing.T) {
	testutil.MustBootTemplates(t)

	h := NewHandler()
	req := testutil.NewRequest("GET", "/")
	rec := testutil.NewRecorder()
	h.InternalError(rec.ResponseRecorder, req)

	rec.AssertStatus(t, 500)
	rec.AssertContains(t, "500")
}
