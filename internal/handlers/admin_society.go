package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/httpx"
	"github.com/diewo77/go-portale/internal/i18n"
	"github.com/diewo77/go-portale/internal/services"
	"github.com/diewo77/go-portale/internal/view"
)

// AdminSocietyHandler serves the approval queue. Routes are mounted behind
// the gate's RequireAdmin middleware; handlers assume an admin identity.
type AdminSocietyHandler struct {
	societies *services.SocietyService
	router    *i18n.Router
}

func NewAdminSocietyHandler(societies *services.SocietyService, router *i18n.Router) *AdminSocietyHandler {
	return &AdminSocietyHandler{societies: societies, router: router}
}

// List shows societies awaiting approval.
func (h *AdminSocietyHandler) List(w http.ResponseWriter, r *http.Request) {
	pending, err := h.societies.Pending(r.Context())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"pending": pending})
		return
	}
	view.Render(w, r, "admin/societies.html", map[string]any{
		"Pending": pending,
		"Error":   r.URL.Query().Get("error"),
	})
}

// Approve marks a society approved and returns to the queue.
func (h *AdminSocietyHandler) Approve(w http.ResponseWriter, r *http.Request) {
	adminID, _ := auth.UserIDFromContext(r.Context())
	societyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_society_id", nil)
		return
	}
	err = h.societies.Approve(r.Context(), adminID, societyID)
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.router.Redirect(w, r, "/admin/societies?error=error.generic")
		return
	}
	h.router.Redirect(w, r, "/admin/societies")
}

// Reject soft-deletes a society and returns to the queue. The row remains
// retrievable by id for audit.
func (h *AdminSocietyHandler) Reject(w http.ResponseWriter, r *http.Request) {
	societyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_society_id", nil)
		return
	}
	err = h.societies.Reject(r.Context(), societyID)
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.router.Redirect(w, r, "/admin/societies?error=error.generic")
		return
	}
	h.router.Redirect(w, r, "/admin/societies")
}
