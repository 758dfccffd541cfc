// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"

	"github.com/kiranapage/kiranapage/internal/app/system/auth"
	"github.com/kiranapage/kiranapage/internal/domain/models"
)

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	// Site branding
	SiteName string

	// Owner context (from auth middleware)
	IsOwner bool
	StoreID string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// Security
	CSRFToken string // CSRF token for forms (use in hidden input field)
}

// New creates a BaseVM populated from the request context.
// This is the standard way to create a BaseVM for most handlers.
func New(r *http.Request) BaseVM {
	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if owner, ok := auth.CurrentOwner(r); ok {
		vm.IsOwner = true
		vm.StoreID = owner.StoreID
	}

	return vm
}

// NewBaseVM creates a BaseVM with the page title and back URL filled in.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	vm := New(r)
	vm.Title = title
	vm.BackURL = httpnav.ResolveBackURL(r, backDefault)
	return vm
}
