package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/i18n"
	"github.com/diewo77/go-portale/internal/models"
	"github.com/diewo77/go-portale/internal/services"
	"github.com/diewo77/go-portale/internal/validation"
	"github.com/diewo77/go-portale/internal/view"
)

type SocietyHandler struct {
	societies *services.SocietyService
	router    *i18n.Router
}

func NewSocietyHandler(societies *services.SocietyService, router *i18n.Router) *SocietyHandler {
	return &SocietyHandler{societies: societies, router: router}
}

// List shows approved societies with an optional name search.
func (h *SocietyHandler) List(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	societies, err := h.societies.ListApproved(r.Context(), search)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "societies/index.html", map[string]any{
		"Societies": societies,
		"Search":    search,
	})
}

// Detail renders a society page; soft-deleted or unknown slugs are 404.
func (h *SocietyHandler) Detail(w http.ResponseWriter, r *http.Request) {
	soc, err := h.societies.BySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	view.Render(w, r, "societies/view.html", map[string]any{"Society": soc})
}

// New renders the registration form.
func (h *SocietyHandler) New(w http.ResponseWriter, r *http.Request) {
	view.Render(w, r, "societies/new.html", map[string]any{"Society": models.Society{}})
}

// Create validates the form, allocates a slug and inserts the society
// unapproved, then redirects to its detail page.
func (h *SocietyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	soc := models.Society{
		Name:           r.FormValue("name"),
		RagioneSociale: r.FormValue("ragione_sociale"),
		CodiceFiscale:  r.FormValue("codice_fiscale"),
		Sede:           r.FormValue("sede"),
		City:           r.FormValue("city"),
		Province:       r.FormValue("province"),
		Description:    r.FormValue("description"),
		CreatedBy:      userID,
	}

	v := make(validation.Violations)
	validation.Required("name", soc.Name, v)
	validation.LengthBetween("name", soc.Name, 2, 160, v)
	validation.Required("ragione_sociale", soc.RagioneSociale, v)
	validation.LengthBetween("ragione_sociale", soc.RagioneSociale, 2, 255, v)
	validation.Required("codice_fiscale", soc.CodiceFiscale, v)
	// Italian tax code: 11 digits (companies) or 16 alphanumeric (individuals)
	validation.LengthBetween("codice_fiscale", soc.CodiceFiscale, 11, 16, v)
	validation.Required("sede", soc.Sede, v)
	validation.LengthBetween("sede", soc.Sede, 2, 255, v)
	validation.MaxLen("city", soc.City, 120, v)
	validation.MaxLen("province", soc.Province, 120, v)
	validation.MaxLen("description", soc.Description, 2000, v)

	if !v.Empty() {
		view.Render(w, r, "societies/new.html", map[string]any{"Society": soc, "Errors": v})
		return
	}

	if err := h.societies.Create(r.Context(), &soc); err != nil {
		if errors.Is(err, services.ErrDuplicateSlug) {
			v["name"] = "error.slug_taken"
			view.Render(w, r, "societies/new.html", map[string]any{"Society": soc, "Errors": v})
			return
		}
		view.Render(w, r, "societies/new.html", map[string]any{"Society": soc, "Error": "error.generic"})
		return
	}

	h.router.Redirect(w, r, "/societies/"+soc.Slug)
}
