package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diewo77/go-portale/internal/i18n"
	"github.com/diewo77/go-portale/internal/models"
	"github.com/diewo77/go-portale/internal/services"
)

func validEventForm() url.Values {
	return url.Values{
		"title":          {"Torneo Cittadino"},
		"event_type":     {"gara"},
		"start_datetime": {"2026-07-01T10:00"},
		"timezone":       {"Europe/Rome"},
		"city":           {"Milano"},
		"region":         {"Lombardia"},
	}
}

func TestEventCreateStoresUTC(t *testing.T) {
	db := setupTestDB(t, t.Name())
	h := NewEventHandler(services.NewEventService(db), services.NewSocietyService(db), i18n.NewRouter())

	rec := httptest.NewRecorder()
	h.Create(rec, formRequest("/events/new", validEventForm(), uuid.New()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/it/events/torneo-cittadino" {
		t.Errorf("Location = %q", loc)
	}

	var ev models.Event
	if err := db.Where("slug = ?", "torneo-cittadino").First(&ev).Error; err != nil {
		t.Fatalf("event not stored: %v", err)
	}
	// 10:00 July in Rome is UTC+2.
	want := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	if !ev.StartDatetime.Equal(want) {
		t.Errorf("StartDatetime = %s, want %s", ev.StartDatetime, want)
	}
	if ev.Timezone != "Europe/Rome" {
		t.Errorf("Timezone = %q", ev.Timezone)
	}
	if !ev.IsPublished {
		t.Error("new event must be published")
	}
}

func TestEventCreateDefaultsTimezone(t *testing.T) {
	db := setupTestDB(t, t.Name())
	h := NewEventHandler(services.NewEventService(db), services.NewSocietyService(db), i18n.NewRouter())

	form := validEventForm()
	form.Del("timezone")
	rec := httptest.NewRecorder()
	h.Create(rec, formRequest("/events/new", form, uuid.New()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	var ev models.Event
	if err := db.Where("slug = ?", "torneo-cittadino").First(&ev).Error; err != nil {
		t.Fatalf("event: %v", err)
	}
	if ev.Timezone != "Europe/Rome" {
		t.Errorf("Timezone = %q, want the default", ev.Timezone)
	}
}

func TestEventCreateRejectsUnknownType(t *testing.T) {
	db := setupTestDB(t, t.Name())
	h := NewEventHandler(services.NewEventService(db), services.NewSocietyService(db), i18n.NewRouter())

	form := validEventForm()
	form.Set("event_type", "torneo")
	rec := httptest.NewRecorder()
	h.Create(rec, formRequest("/events/new", form, uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Non valido") {
		t.Error("missing invalid-type message")
	}
	var count int64
	db.Model(&models.Event{}).Count(&count)
	if count != 0 {
		t.Errorf("invalid submission stored %d rows", count)
	}
}

func TestEventCreateStoresDisciplines(t *testing.T) {
	db := setupTestDB(t, t.Name())
	h := NewEventHandler(services.NewEventService(db), services.NewSocietyService(db), i18n.NewRouter())

	form := validEventForm()
	form["disciplines"] = []string{"spada_lunga", "sciabola"}
	rec := httptest.NewRecorder()
	h.Create(rec, formRequest("/events/new", form, uuid.New()))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	var ev models.Event
	if err := db.Where("slug = ?", "torneo-cittadino").First(&ev).Error; err != nil {
		t.Fatalf("event: %v", err)
	}
	if len(ev.Disciplines) != 2 || ev.Disciplines[0] != "spada_lunga" {
		t.Errorf("Disciplines = %v", ev.Disciplines)
	}
}

func TestEventDetailUnknownSlugIs404(t *testing.T) {
	db := setupTestDB(t, t.Name())
	h := NewEventHandler(services.NewEventService(db), services.NewSocietyService(db), i18n.NewRouter())

	req := httptest.NewRequest(http.MethodGet, "/events/nessuno", nil)
	req.SetPathValue("slug", "nessuno")
	rec := httptest.NewRecorder()
	h.Detail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
