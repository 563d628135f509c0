package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/i18n"
	"github.com/diewo77/go-portale/internal/models"
)

func seedProfile(t *testing.T, db *gorm.DB) models.Profile {
	t.Helper()
	user := models.User{Email: "socio@example.com", Password: "hash"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	profile := models.Profile{
		UserID:            user.ID,
		FullName:          "Socio Prova",
		PreferredLanguage: "it",
		Timezone:          "Europe/Rome",
		Email:             user.Email,
	}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("profile: %v", err)
	}
	return profile
}

func TestAccountShow(t *testing.T) {
	db := setupTestDB(t, t.Name())
	h := NewAccountHandler(db, i18n.NewRouter())
	profile := seedProfile(t, db)

	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	ctx := i18n.WithLocale(req.Context(), "it")
	req = req.WithContext(auth.WithUserID(ctx, profile.UserID))
	rec := httptest.NewRecorder()
	h.Show(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Socio Prova") || !strings.Contains(body, "socio@example.com") {
		t.Error("profile data missing from page")
	}
}

func TestAccountUpdate(t *testing.T) {
	db := setupTestDB(t, t.Name())
	h := NewAccountHandler(db, i18n.NewRouter())
	profile := seedProfile(t, db)

	form := url.Values{
		"full_name":          {"Nuovo Nome"},
		"preferred_language": {"en"},
		"timezone":           {"Europe/Berlin"},
	}
	rec := httptest.NewRecorder()
	h.Update(rec, formRequest("/account", form, profile.UserID))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/it/account" {
		t.Errorf("Location = %q", loc)
	}

	var updated models.Profile
	if err := db.Where("user_id = ?", profile.UserID).First(&updated).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if updated.FullName != "Nuovo Nome" || updated.PreferredLanguage != "en" || updated.Timezone != "Europe/Berlin" {
		t.Errorf("profile not updated: %+v", updated)
	}
}

func TestAccountUpdateRejectsBadTimezone(t *testing.T) {
	db := setupTestDB(t, t.Name())
	h := NewAccountHandler(db, i18n.NewRouter())
	profile := seedProfile(t, db)

	form := url.Values{
		"full_name": {"Socio Prova"},
		"timezone":  {"Marte/Olympus"},
	}
	rec := httptest.NewRecorder()
	h.Update(rec, formRequest("/account", form, profile.UserID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Non valido") {
		t.Error("missing invalid-timezone message")
	}

	var unchanged models.Profile
	db.Where("user_id = ?", profile.UserID).First(&unchanged)
	if unchanged.Timezone != "Europe/Rome" {
		t.Errorf("Timezone = %q, want unchanged", unchanged.Timezone)
	}
}

func TestAccountUpdateRejectsUnknownLanguage(t *testing.T) {
	db := setupTestDB(t, t.Name())
	h := NewAccountHandler(db, i18n.NewRouter())
	profile := seedProfile(t, db)

	form := url.Values{
		"full_name":          {"Socio Prova"},
		"preferred_language": {"fr"},
	}
	rec := httptest.NewRecorder()
	h.Update(rec, formRequest("/account", form, profile.UserID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var unchanged models.Profile
	db.Where("user_id = ?", profile.UserID).First(&unchanged)
	if unchanged.PreferredLanguage != "it" {
		t.Errorf("PreferredLanguage = %q, want unchanged", unchanged.PreferredLanguage)
	}
}
