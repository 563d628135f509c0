package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/authz"
	"github.com/diewo77/go-portale/internal/httpx"
	"github.com/diewo77/go-portale/internal/i18n"
	"github.com/diewo77/go-portale/internal/models"
	"github.com/diewo77/go-portale/internal/view"
)

// AdminUserHandler lists users and manages platform_admin grants.
type AdminUserHandler struct {
	db     *gorm.DB
	gate   *authz.Gate
	router *i18n.Router
}

func NewAdminUserHandler(db *gorm.DB, gate *authz.Gate, router *i18n.Router) *AdminUserHandler {
	return &AdminUserHandler{db: db, gate: gate, router: router}
}

// List displays all users with their role assignments.
func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := h.db.Preload("Profile").Preload("Roles").Order("email").Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "db_error", nil)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"users": users})
		return
	}
	currentID, _ := auth.UserIDFromContext(r.Context())
	view.Render(w, r, "admin/users.html", map[string]any{
		"Users":         users,
		"CurrentUserID": currentID,
		"Error":         r.URL.Query().Get("error"),
	})
}

// Grant assigns platform_admin to the target user. Granting twice is a
// no-op; the listing shows a single assignment either way.
func (h *AdminUserHandler) Grant(w http.ResponseWriter, r *http.Request) {
	adminID, _ := auth.UserIDFromContext(r.Context())
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_user_id", nil)
		return
	}
	if err := h.gate.Grant(r.Context(), adminID, targetID, models.RolePlatformAdmin); err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.router.Redirect(w, r, "/admin/users")
}

// Revoke removes platform_admin from the target user. Self-revocation and
// removing the last admin are rejected without touching the assignment.
func (h *AdminUserHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	adminID, _ := auth.UserIDFromContext(r.Context())
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_user_id", nil)
		return
	}
	if err := h.gate.Revoke(r.Context(), adminID, targetID, models.RolePlatformAdmin); err != nil {
		h.redirectWithError(w, r, err)
		return
	}
	h.router.Redirect(w, r, "/admin/users")
}

// redirectWithError maps gate errors to message codes shown on the listing.
func (h *AdminUserHandler) redirectWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := "error.generic"
	switch {
	case errors.Is(err, authz.ErrSelfRevocation):
		code = "error.self_revocation"
	case errors.Is(err, authz.ErrLastAdmin):
		code = "error.last_admin"
	case errors.Is(err, authz.ErrUnauthorized), errors.Is(err, authz.ErrUnauthenticated):
		code = "error.unauthorized"
	}
	if httpx.WantsJSON(r) {
		status := http.StatusUnprocessableEntity
		if code == "error.unauthorized" {
			status = http.StatusForbidden
		}
		httpx.JSONError(w, status, code, nil)
		return
	}
	h.router.Redirect(w, r, "/admin/users?error="+code)
}
