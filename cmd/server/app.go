package main

import (
	"net/http"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/gate"
	"github.com/teranga-editions/platform/internal/handlers"
	"github.com/teranga-editions/platform/internal/i18n"
	"github.com/teranga-editions/platform/internal/metrics"
	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *handlers.RouterConfig
	metrics   *metrics.Metrics
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, routerCfg *handlers.RouterConfig, m *metrics.Metrics) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        db,
		routerCfg: routerCfg,
		metrics:   m,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Global middleware: auth context, language, metrics
	var handler http.Handler = a.mux
	handler = withLanguage(handler)
	if a.metrics != nil {
		handler = a.metrics.Middleware(handler)
	}
	handler = auth.Middleware(handler)
	handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	cfg := a.routerCfg

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes (no auth required)
	// ─────────────────────────────────────────────────────────────────────────
	ah := cfg.AuthHandler

	a.mux.HandleFunc("POST /api/auth/signup", ah.Signup)
	a.mux.HandleFunc("POST /api/auth/login", ah.Login)
	a.mux.HandleFunc("POST /api/auth/logout", ah.Logout)
	a.mux.HandleFunc("GET /api/auth/session", ah.SessionCheck)
	// Legacy alias kept for the existing frontend shell.
	a.mux.HandleFunc("GET /api/session-check", ah.SessionCheck)

	// Catalog browsing stays open so the storefront works for visitors.
	a.mux.HandleFunc("GET /api/works", cfg.WorkHandler.List)
	a.mux.HandleFunc("GET /api/works/{id}", cfg.WorkHandler.View)
	a.mux.HandleFunc("GET /api/disciplines", cfg.DisciplineHandler.List)

	if a.metrics != nil {
		a.mux.Handle("GET /metrics", metrics.Handler())
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Catalog administration
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("POST /api/works",
		a.requireAuth(a.requirePermission("work", gate.ActionCreate)(http.HandlerFunc(cfg.WorkHandler.Create))))
	a.mux.Handle("PATCH /api/works/{id}",
		a.requireAuth(a.requirePermission("work", gate.ActionUpdate)(http.HandlerFunc(cfg.WorkHandler.Update))))
	a.mux.Handle("POST /api/works/{id}/status",
		a.requireAuth(a.requirePermission("work", gate.ActionUpdate)(http.HandlerFunc(cfg.WorkHandler.ChangeStatus))))

	// ─────────────────────────────────────────────────────────────────────────
	// Orders: checkout, listing, lifecycle transitions
	// ─────────────────────────────────────────────────────────────────────────
	oh := cfg.OrderHandler
	a.mux.Handle("POST /api/orders",
		a.requireAuth(a.requirePermission("order", gate.ActionCreate)(http.HandlerFunc(oh.Create))))
	a.mux.Handle("GET /api/orders",
		a.requireAuth(a.requirePermission("order", gate.ActionList)(http.HandlerFunc(oh.List))))
	a.mux.Handle("GET /api/orders/{id}",
		a.requireAuth(a.requirePermission("order", gate.ActionView)(http.HandlerFunc(oh.View))))
	// The transition guard table inside the order service decides per event
	// and per actor; the route only requires a session.
	a.mux.Handle("POST /api/orders/{id}/{event}",
		a.requireAuth(http.HandlerFunc(oh.Transition)))

	// ─────────────────────────────────────────────────────────────────────────
	// Management: stock, settlements, users, partners, disciplines
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /api/pdg/dashboard",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.DashboardHandler.PDG))))
	a.mux.Handle("GET /api/pdg/stock",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.StockHandler.Overview))))
	a.mux.Handle("POST /api/pdg/stock/movements",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.StockHandler.PostMovement))))

	a.mux.Handle("POST /api/royalties/pay",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.RoyaltyHandler.Pay))))
	a.mux.Handle("POST /api/commissions/pay",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.CommissionHandler.Pay))))

	a.mux.Handle("GET /api/users",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.UserHandler.List))))
	a.mux.Handle("PATCH /api/users/{id}/role",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.UserHandler.AssignRole))))

	a.mux.Handle("GET /api/partners",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.PartnerHandler.List))))
	a.mux.Handle("POST /api/partners",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.PartnerHandler.Create))))
	a.mux.Handle("PATCH /api/partners/{id}",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.PartnerHandler.Update))))

	a.mux.Handle("POST /api/disciplines",
		a.requireAuth(a.requireManagement(http.HandlerFunc(cfg.DisciplineHandler.Create))))

	// ─────────────────────────────────────────────────────────────────────────
	// Role dashboards and feeds
	// ─────────────────────────────────────────────────────────────────────────
	dh := cfg.DashboardHandler
	a.mux.Handle("GET /api/representant/dashboard",
		a.requireAuth(a.requireRole(models.RoleRepresentant)(http.HandlerFunc(dh.Representant))))
	a.mux.Handle("GET /api/representant/commissions",
		a.requireAuth(a.requirePermission("commission", gate.ActionList)(http.HandlerFunc(cfg.CommissionHandler.List))))
	a.mux.Handle("GET /api/partenaire/dashboard",
		a.requireAuth(a.requireRole(models.RolePartenaire)(http.HandlerFunc(dh.Partner))))
	a.mux.Handle("GET /api/auteur/dashboard",
		a.requireAuth(a.requireRole(models.RoleAuteur)(http.HandlerFunc(dh.Beneficiary))))
	a.mux.Handle("GET /api/concepteur/dashboard",
		a.requireAuth(a.requireRole(models.RoleConcepteur)(http.HandlerFunc(dh.Beneficiary))))

	a.mux.Handle("GET /api/royalties/pending",
		a.requireAuth(a.requirePermission("royalty", gate.ActionList)(http.HandlerFunc(cfg.RoyaltyHandler.Pending))))

	nh := cfg.NotificationHandler
	a.mux.Handle("GET /api/notifications",
		a.requireAuth(a.requirePermission("notification", gate.ActionList)(http.HandlerFunc(nh.List))))
	a.mux.Handle("PATCH /api/notifications/read",
		a.requireAuth(a.requirePermission("notification", gate.ActionUpdate)(http.HandlerFunc(nh.MarkRead))))

	// Role-prefixed aliases kept for the existing frontend shell. The feed is
	// scoped by the session user either way.
	for _, prefix := range []string{"partenaire", "representant"} {
		a.mux.Handle("GET /api/"+prefix+"/notifications",
			a.requireAuth(a.requirePermission("notification", gate.ActionList)(http.HandlerFunc(nh.List))))
		a.mux.Handle("PATCH /api/"+prefix+"/notifications",
			a.requireAuth(a.requirePermission("notification", gate.ActionUpdate)(http.HandlerFunc(nh.MarkRead))))
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// requireAuth wraps a handler to require authentication.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

// requirePermission wraps a handler to require specific resource permission.
func (a *App) requirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return a.routerCfg.AuthGate.RequirePermission(resourceType, action)
}

// requireRole wraps a handler to require one of the given roles.
// Management always passes so the back office can inspect any dashboard.
func (a *App) requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	roles = append(roles, models.RolePDG, models.RoleDGA)
	return a.routerCfg.AuthGate.RequireRole(roles...)
}

// requireManagement wraps a handler restricted to PDG and DGA.
func (a *App) requireManagement(next http.Handler) http.Handler {
	return a.routerCfg.AuthGate.RequireManagement()(next)
}

// withLanguage stores the response language in the request context. The
// Accept-Language header decides; French is the default.
func withLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
