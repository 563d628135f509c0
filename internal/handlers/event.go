package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/diewo77/go-portale/internal/auth"
	"github.com/diewo77/go-portale/internal/i18n"
	"github.com/diewo77/go-portale/internal/models"
	"github.com/diewo77/go-portale/internal/services"
	"github.com/diewo77/go-portale/internal/validation"
	"github.com/diewo77/go-portale/internal/view"
)

// datetimeLocal is the format of <input type="datetime-local"> values.
const datetimeLocal = "2006-01-02T15:04"

type EventHandler struct {
	events    *services.EventService
	societies *services.SocietyService
	router    *i18n.Router
}

func NewEventHandler(events *services.EventService, societies *services.SocietyService, router *i18n.Router) *EventHandler {
	return &EventHandler{events: events, societies: societies, router: router}
}

// List shows upcoming published events with search/type/region filters.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.EventFilter{
		Search: q.Get("search"),
		Type:   q.Get("type"),
		Region: q.Get("region"),
	}
	events, err := h.events.Upcoming(r.Context(), filter)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	regions, _ := h.events.Regions(r.Context())
	view.Render(w, r, "events/index.html", map[string]any{
		"Events":     events,
		"Filter":     filter,
		"Regions":    regions,
		"EventTypes": models.EventTypes,
	})
}

// Detail renders an event page with its society and discipline names.
func (h *EventHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ev, err := h.events.BySlug(r.Context(), r.PathValue("slug"))
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	lang := i18n.LocaleFromContext(r.Context())
	disciplineNames, _ := h.events.DisciplineNames(r.Context(), ev.Disciplines, lang)
	view.Render(w, r, "events/view.html", map[string]any{
		"Event":       ev,
		"Disciplines": disciplineNames,
	})
}

// New renders the creation form with society and discipline options.
func (h *EventHandler) New(w http.ResponseWriter, r *http.Request) {
	societies, _ := h.societies.Approved(r.Context())
	disciplines, _ := h.events.Disciplines(r.Context())
	view.Render(w, r, "events/new.html", map[string]any{
		"Event":       models.Event{},
		"Societies":   societies,
		"Disciplines": disciplines,
		"EventTypes":  models.EventTypes,
	})
}

// Create validates the form, stores timestamps in UTC, allocates a slug and
// redirects to the new event's detail page.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ev := models.Event{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		EventType:    r.FormValue("event_type"),
		ExternalLink: r.FormValue("external_link"),
		Timezone:     r.FormValue("timezone"),
		Region:       r.FormValue("region"),
		Province:     r.FormValue("province"),
		City:         r.FormValue("city"),
		LocationName: r.FormValue("location_name"),
		Address:      r.FormValue("address"),
		CreatorID:    userID,
		IsPublished:  true,
	}
	if ev.Timezone == "" {
		ev.Timezone = "Europe/Rome"
	}
	if codes := r.Form["disciplines"]; len(codes) > 0 {
		ev.Disciplines = datatypes.NewJSONSlice(codes)
	}

	v := make(validation.Violations)
	validation.Required("title", ev.Title, v)
	validation.LengthBetween("title", ev.Title, 3, 200, v)
	validation.MaxLen("description", ev.Description, 5000, v)
	validation.OneOf("event_type", ev.EventType, models.EventTypes, v)
	validation.URL("external_link", ev.ExternalLink, v)
	validation.MaxLen("region", ev.Region, 100, v)
	validation.MaxLen("province", ev.Province, 100, v)
	validation.MaxLen("city", ev.City, 200, v)
	validation.MaxLen("location_name", ev.LocationName, 300, v)
	validation.MaxLen("address", ev.Address, 500, v)

	loc, err := time.LoadLocation(ev.Timezone)
	if err != nil {
		v["timezone"] = "error.invalid"
		loc = time.UTC
	}

	startRaw := r.FormValue("start_datetime")
	validation.Required("start_datetime", startRaw, v)
	if startRaw != "" {
		start, perr := time.ParseInLocation(datetimeLocal, startRaw, loc)
		if perr != nil {
			v["start_datetime"] = "error.invalid"
		} else {
			ev.StartDatetime = start.UTC()
		}
	}
	if endRaw := r.FormValue("end_datetime"); endRaw != "" {
		end, perr := time.ParseInLocation(datetimeLocal, endRaw, loc)
		if perr != nil {
			v["end_datetime"] = "error.invalid"
		} else {
			utc := end.UTC()
			ev.EndDatetime = &utc
		}
	}

	if sid := r.FormValue("society_id"); sid != "" {
		id, perr := uuid.Parse(sid)
		if perr != nil {
			v["society_id"] = "error.invalid"
		} else {
			ev.SocietyID = &id
		}
	}

	if !v.Empty() {
		societies, _ := h.societies.Approved(r.Context())
		disciplines, _ := h.events.Disciplines(r.Context())
		view.Render(w, r, "events/new.html", map[string]any{
			"Event":       ev,
			"Errors":      v,
			"Societies":   societies,
			"Disciplines": disciplines,
			"EventTypes":  models.EventTypes,
		})
		return
	}

	if err := h.events.Create(r.Context(), &ev); err != nil {
		if errors.Is(err, services.ErrDuplicateSlug) {
			v["title"] = "error.slug_taken"
		} else {
			v["title"] = "error.generic"
		}
		societies, _ := h.societies.Approved(r.Context())
		disciplines, _ := h.events.Disciplines(r.Context())
		view.Render(w, r, "events/new.html", map[string]any{
			"Event":       ev,
			"Errors":      v,
			"Societies":   societies,
			"Disciplines": disciplines,
			"EventTypes":  models.EventTypes,
		})
		return
	}

	h.router.Redirect(w, r, "/events/"+ev.Slug)
}
