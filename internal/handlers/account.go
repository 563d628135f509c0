package handlers

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/i18n"
	"github.com/diewo77/go-portale/internal/models"
	"github.com/diewo77/go-portale/internal/validation"
	"github.com/diewo77/go-portale/internal/view"
)

type AccountHandler struct {
	db     *gorm.DB
	router *i18n.Router
}

func NewAccountHandler(db *gorm.DB, router *i18n.Router) *AccountHandler {
	return &AccountHandler{db: db, router: router}
}

// Show renders the account page with the user's profile.
func (h *AccountHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var profile models.Profile
	h.db.Where("user_id = ?", userID).First(&profile)

	view.Render(w, r, "account/index.html", map[string]any{
		"Profile": profile,
		"Locales": i18n.Locales,
	})
}

// Update saves the editable profile fields and redirects back.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	fullName := r.FormValue("full_name")
	preferredLanguage := r.FormValue("preferred_language")
	timezone := r.FormValue("timezone")

	v := make(validation.Violations)
	validation.Required("full_name", fullName, v)
	validation.MaxLen("full_name", fullName, 120, v)
	if preferredLanguage != "" {
		validation.OneOf("preferred_language", preferredLanguage, i18n.Locales, v)
	}
	validation.MaxLen("timezone", timezone, 120, v)
	if timezone != "" {
		if !validTimezone(timezone) {
			v["timezone"] = "error.invalid"
		}
	}

	var profile models.Profile
	h.db.Where("user_id = ?", userID).First(&profile)

	if !v.Empty() {
		profile.FullName = fullName
		profile.PreferredLanguage = preferredLanguage
		profile.Timezone = timezone
		view.Render(w, r, "account/index.html", map[string]any{
			"Profile": profile,
			"Locales": i18n.Locales,
			"Errors":  v,
		})
		return
	}

	err := h.db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"full_name":          fullName,
			"preferred_language": preferredLanguage,
			"timezone":           timezone,
		}).Error
	if err != nil {
		view.Render(w, r, "account/index.html", map[string]any{
			"Profile": profile,
			"Locales": i18n.Locales,
			"Error":   "error.generic",
		})
		return
	}

	h.router.Redirect(w, r, "/account")
}

func validTimezone(name string) bool {
	_, err := time.LoadLocation(name)
	return err == nil
}
