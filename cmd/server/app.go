package main

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/authz"
	"github.com/diewo77/go-portale/internal/handlers"
	"github.com/diewo77/go-portale/internal/httpx"
	"github.com/diewo77/go-portale/internal/i18n"
	"github.com/diewo77/go-portale/internal/models"
	"github.com/diewo77/go-portale/internal/services"
	"github.com/diewo77/go-portale/internal/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux    *http.ServeMux
	db     *gorm.DB
	router *i18n.Router
	gate   *authz.Gate

	authHandler         *handlers.AuthHandler
	societyHandler      *handlers.SocietyHandler
	eventHandler        *handlers.EventHandler
	accountHandler      *handlers.AccountHandler
	adminSocietyHandler *handlers.AdminSocietyHandler
	adminUserHandler    *handlers.AdminUserHandler
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB) *App {
	router := i18n.NewRouter()
	gate := authz.NewGate(db)
	gate.SetRedirects(
		func(r *http.Request) string { return router.RequestPath(r, "/auth/sign-in") },
		func(r *http.Request) string { return router.RequestPath(r, "/") },
	)

	societyService := services.NewSocietyService(db)
	eventService := services.NewEventService(db)

	app := &App{
		mux:                 http.NewServeMux(),
		db:                  db,
		router:              router,
		gate:                gate,
		authHandler:         handlers.NewAuthHandler(db, router),
		societyHandler:      handlers.NewSocietyHandler(societyService, router),
		eventHandler:        handlers.NewEventHandler(eventService, societyService, router),
		accountHandler:      handlers.NewAccountHandler(db, router),
		adminSocietyHandler: handlers.NewAdminSocietyHandler(societyService, router),
		adminUserHandler:    handlers.NewAdminUserHandler(db, gate, router),
	}

	// Templates show the admin nav entry only for platform admins.
	view.SetIsAdminResolver(func(r *http.Request) bool {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			return false
		}
		isAdmin, err := gate.HasRole(r.Context(), uid, models.RolePlatformAdmin)
		return err == nil && isAdmin
	})

	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler. Static files bypass the locale router;
// everything else goes locale resolution -> session -> mux.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/static/") {
		http.StripPrefix("/static/", http.FileServer(http.Dir("static"))).ServeHTTP(w, r)
		return
	}
	a.router.Middleware(auth.Middleware(a.mux)).ServeHTTP(w, r)
}

// setupRoutes configures all application routes. Paths are registered
// without locale prefixes; the locale router strips them beforehand.
func (a *App) setupRoutes() {
	// Public
	a.mux.HandleFunc("GET /{$}", a.landingPage)
	a.mux.HandleFunc("GET /auth/sign-in", a.authHandler.SignIn)
	a.mux.HandleFunc("POST /auth/sign-in", a.authHandler.SignIn)
	a.mux.HandleFunc("GET /auth/sign-up", a.authHandler.SignUp)
	a.mux.HandleFunc("POST /auth/sign-up", a.authHandler.SignUp)
	a.mux.HandleFunc("POST /auth/sign-out", a.authHandler.SignOut)

	a.mux.HandleFunc("GET /societies", a.societyHandler.List)
	a.mux.HandleFunc("GET /events", a.eventHandler.List)

	// Creation routes must come before the {slug} wildcards.
	a.mux.Handle("GET /societies/new", a.requireAuth(http.HandlerFunc(a.societyHandler.New)))
	a.mux.Handle("POST /societies/new", a.requireAuth(http.HandlerFunc(a.societyHandler.Create)))
	a.mux.Handle("GET /events/new", a.requireAuth(http.HandlerFunc(a.eventHandler.New)))
	a.mux.Handle("POST /events/new", a.requireAuth(http.HandlerFunc(a.eventHandler.Create)))

	a.mux.HandleFunc("GET /societies/{slug}", a.societyHandler.Detail)
	a.mux.HandleFunc("GET /events/{slug}", a.eventHandler.Detail)

	// Account
	a.mux.Handle("GET /account", a.requireAuth(http.HandlerFunc(a.accountHandler.Show)))
	a.mux.Handle("POST /account", a.requireAuth(http.HandlerFunc(a.accountHandler.Update)))

	// Admin
	requireAdmin := a.gate.RequireAdmin()
	a.mux.Handle("GET /admin", requireAdmin(http.HandlerFunc(a.adminOverview)))
	a.mux.Handle("GET /admin/societies", requireAdmin(http.HandlerFunc(a.adminSocietyHandler.List)))
	a.mux.Handle("POST /admin/societies/{id}/approve", requireAdmin(http.HandlerFunc(a.adminSocietyHandler.Approve)))
	a.mux.Handle("POST /admin/societies/{id}/reject", requireAdmin(http.HandlerFunc(a.adminSocietyHandler.Reject)))
	a.mux.Handle("GET /admin/users", requireAdmin(http.HandlerFunc(a.adminUserHandler.List)))
	a.mux.Handle("POST /admin/users/{id}/grant", requireAdmin(http.HandlerFunc(a.adminUserHandler.Grant)))
	a.mux.Handle("POST /admin/users/{id}/revoke", requireAdmin(http.HandlerFunc(a.adminUserHandler.Revoke)))
}

// requireAuth wraps a handler to require authentication, redirecting
// browsers to the locale-prefixed sign-in page.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.UserIDFromContext(r.Context()); !ok {
			if httpx.WantsJSON(r) {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthenticated", nil)
				return
			}
			http.Redirect(w, r, a.router.RequestPath(r, "/auth/sign-in"), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *App) landingPage(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "index.html", nil)
}

func (a *App) adminOverview(w http.ResponseWriter, r *http.Request) {
	var pendingCount, userCount, eventCount int64
	a.db.Model(&models.Society{}).Where("approved = ?", false).Count(&pendingCount)
	a.db.Model(&models.User{}).Count(&userCount)
	a.db.Model(&models.Event{}).Count(&eventCount)
	view.Render(w, r, "admin/index.html", map[string]any{
		"PendingSocieties": pendingCount,
		"Users":            userCount,
		"Events":           eventCount,
	})
}
