package handlers

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/i18n"
	"github.com/diewo77/go-portale/internal/models"
	"github.com/diewo77/go-portale/internal/validation"
	"github.com/diewo77/go-portale/internal/view"
)

type AuthHandler struct {
	db     *gorm.DB
	router *i18n.Router
}

func NewAuthHandler(db *gorm.DB, router *i18n.Router) *AuthHandler {
	return &AuthHandler{db: db, router: router}
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		view.Render(w, r, "auth/sign-in.html", nil)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		view.Render(w, r, "auth/sign-in.html", map[string]any{"Error": "error.invalid_credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		view.Render(w, r, "auth/sign-in.html", map[string]any{"Error": "error.invalid_credentials"})
		return
	}

	auth.CreateSession(w, user.ID)
	h.router.Redirect(w, r, "/societies")
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		view.Render(w, r, "auth/sign-up.html", map[string]any{"Email": ""})
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	fullName := r.FormValue("full_name")

	v := make(validation.Violations)
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	validation.Required("password", password, v)
	if len(password) > 0 && len(password) < 6 {
		v["password"] = "error.too_short"
	}
	if !v.Empty() {
		view.Render(w, r, "auth/sign-up.html", map[string]any{"Email": email, "Errors": v})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		view.Render(w, r, "auth/sign-up.html", map[string]any{"Email": email, "Error": "error.generic"})
		return
	}

	user := models.User{Email: email, Password: string(hashedPassword)}
	if err := h.db.Create(&user).Error; err != nil {
		v["email"] = "error.email_taken"
		view.Render(w, r, "auth/sign-up.html", map[string]any{"Email": email, "Errors": v})
		return
	}

	// Every account gets a profile row; the active locale becomes the
	// preferred language until the user changes it.
	profile := models.Profile{
		UserID:            user.ID,
		FullName:          fullName,
		PreferredLanguage: i18n.LocaleFromContext(r.Context()),
		Timezone:          "Europe/Rome",
		Email:             user.Email,
	}
	h.db.Create(&profile)

	auth.CreateSession(w, user.ID)
	h.router.Redirect(w, r, "/societies")
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	h.router.Redirect(w, r, "/")
}
