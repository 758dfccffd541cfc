// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	authapifeature "github.com/kiranapage/kiranapage/internal/app/features/authapi"
	errorsfeature "github.com/kiranapage/kiranapage/internal/app/features/errors"
	healthfeature "github.com/kiranapage/kiranapage/internal/app/features/health"
	homefeature "github.com/kiranapage/kiranapage/internal/app/features/home"
	productapifeature "github.com/kiranapage/kiranapage/internal/app/features/productapi"
	storeapifeature "github.com/kiranapage/kiranapage/internal/app/features/storeapi"
	storefrontfeature "github.com/kiranapage/kiranapage/internal/app/features/storefront"
	appresources "github.com/kiranapage/kiranapage/internal/app/resources"
	ownerstore "github.com/kiranapage/kiranapage/internal/app/store/owners"
	productstore "github.com/kiranapage/kiranapage/internal/app/store/products"
	"github.com/kiranapage/kiranapage/internal/app/store/ratelimit"
	storestore "github.com/kiranapage/kiranapage/internal/app/store/stores"
	"github.com/kiranapage/kiranapage/internal/app/system/apicors"
	"github.com/kiranapage/kiranapage/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// The route surface splits in two:
//   - Web routes (landing page, storefronts): session + CSRF, HTML responses
//   - JSON API routes under /api: permissive CORS, no CSRF, consumed by the
//     builder frontend with header or session auth
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Signed cookie that carries the OTP-verified phone between the
	// verify call and shop creation.
	onboarding, err := auth.NewOnboardingCookies(appCfg.OnboardingKey, secure, logger)
	if err != nil {
		logger.Error("onboarding cookie init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Data stores
	stores := storestore.New(deps.MongoDatabase)
	owners := ownerstore.New(deps.MongoDatabase)
	products := productstore.New(deps.MongoDatabase)
	limiter := ratelimit.New(
		deps.MongoDatabase,
		appCfg.RateLimitMPINAttempts,
		appCfg.RateLimitMPINWindow,
		appCfg.RateLimitMPINLockout,
	)

	r := chi.NewRouter()

	// ─────────────────────────────────────────────────────────────────────────────
	// Global Middleware (applies to ALL routes)
	// ─────────────────────────────────────────────────────────────────────────────

	// Request timeout middleware: prevents requests from hanging indefinitely.
	r.Use(chimw.Timeout(30 * time.Second))

	// CORS middleware: must be early in the chain to handle preflight requests.
	// The /api group layers permissive API CORS on top of this.
	r.Use(middleware.CORSFromConfig(coreCfg))

	// Security headers middleware: adds X-Frame-Options, X-Content-Type-Options, etc.
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))

	// Session middleware: loads the owner session into context if present.
	// Anonymous storefront visitors simply have no session, which is fine.
	r.Use(sessionMgr.LoadOwnerSession)

	// CSRF protection middleware with path-based exemption for API routes.
	// Cookie name is "kiranapage_csrf" to avoid collisions with other
	// services on the same domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("kiranapage_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			http.Error(w, "CSRF token invalid or missing", http.StatusForbidden)
		})),
	}
	// In dev mode, trust localhost origins for CSRF validation.
	if !secure {
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	// Skip CSRF for the JSON API: those routes authenticate with the
	// owner token header or the session cookie plus custom headers, and
	// are called cross-origin by the builder frontend.
	csrfMiddleware := func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if strings.HasPrefix(req.URL.Path, "/api/") {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
	r.Use(csrfMiddleware)

	// ─────────────────────────────────────────────────────────────────────────────
	// JSON API Routes
	// ─────────────────────────────────────────────────────────────────────────────

	authHandler := authapifeature.NewHandler(stores, owners, deps.OTP, limiter, sessionMgr, onboarding, logger)
	storeHandler := storeapifeature.NewHandler(stores, owners, products, sessionMgr, onboarding, logger)
	productHandler := productapifeature.NewHandler(stores, products, deps.FileStorage, logger)

	r.Route("/api", func(api chi.Router) {
		api.Use(apicors.Middleware())

		api.Mount("/auth", authapifeature.Routes(authHandler))
		api.Route("/stores", func(sr chi.Router) {
			sr.Mount("/{storeId}/products", productapifeature.Routes(productHandler))
			sr.Mount("/", storeapifeature.Routes(storeHandler))
		})
	})

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// ─────────────────────────────────────────────────────────────────────────────
	// Web Routes
	// ─────────────────────────────────────────────────────────────────────────────

	// /assets/* serves embedded assets (bundled into the binary)
	r.Handle("/assets/*", appresources.AssetsHandler("/assets"))

	// Uploaded product images (local storage only).
	// When using S3, image URLs point at the bucket/CDN instead.
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	// Public storefront pages, one per shop: /s/{whatsapp}
	storefrontHandler := storefrontfeature.NewHandler(stores, products, logger)
	r.Mount("/s", storefrontfeature.Routes(storefrontHandler))

	// Landing page
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// 404 catch-all for unmatched routes
	errorsHandler := errorsfeature.NewHandler()
	r.NotFound(errorsHandler.NotFound)

	return r, nil
}
