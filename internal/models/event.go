package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types accepted by the creation form.
const (
	EventTypeGara              = "gara"
	EventTypeSparring          = "sparring"
	EventTypeSeminario         = "seminario"
	EventTypeAllenamentoAperto = "allenamento_aperto"
)

// EventTypes lists the valid event type codes in display order.
var EventTypes = []string{
	EventTypeGara,
	EventTypeSparring,
	EventTypeSeminario,
	EventTypeAllenamentoAperto,
}

// KnownEventType reports whether t is a valid event type code.
func KnownEventType(t string) bool {
	for _, v := range EventTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Event is a published happening (tournament, sparring day, seminar or open
// training). Events are immutable once created: no edit or delete handlers
// are exposed. SocietyID is an association only, not ownership.
type Event struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Slug         string `gorm:"uniqueIndex;size:220;not null" json:"slug"`
	Title        string `gorm:"size:200;not null" json:"title"`
	Description  string `gorm:"size:5000" json:"description,omitempty"`
	EventType    string `gorm:"size:50;not null;index" json:"event_type"`
	ExternalLink string `gorm:"size:500" json:"external_link,omitempty"`

	// Timestamps are stored in UTC; Timezone is the IANA zone the event is
	// announced in and is used only for display.
	StartDatetime time.Time  `gorm:"not null;index" json:"start_datetime"`
	EndDatetime   *time.Time `json:"end_datetime,omitempty"`
	Timezone      string     `gorm:"size:64;not null" json:"timezone"`

	Region       string `gorm:"size:100;index" json:"region,omitempty"`
	Province     string `gorm:"size:100" json:"province,omitempty"`
	City         string `gorm:"size:200" json:"city,omitempty"`
	LocationName string `gorm:"size:300" json:"location_name,omitempty"`
	Address      string `gorm:"size:500" json:"address,omitempty"`

	SocietyID *uuid.UUID `gorm:"type:uuid;index" json:"society_id,omitempty"`
	Society   *Society   `gorm:"foreignKey:SocietyID" json:"society,omitempty"`

	Disciplines datatypes.JSONSlice[string] `json:"disciplines,omitempty"`

	CreatorID   uuid.UUID `gorm:"type:uuid;index;not null" json:"creator_id"`
	IsPublished bool      `gorm:"default:true;not null" json:"is_published"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Discipline is a seeded lookup row for the discipline codes events can
// reference, with display names per supported language.
type Discipline struct {
	Code   string `gorm:"size:50;primaryKey" json:"code"`
	NameIT string `gorm:"size:120;not null" json:"name_it"`
	NameEN string `gorm:"size:120" json:"name_en,omitempty"`
	NameDE string `gorm:"size:120" json:"name_de,omitempty"`
}

// Name returns the discipline name for the given language, falling back to
// Italian when no translation exists.
func (d Discipline) Name(lang string) string {
	switch lang {
	case "en":
		if d.NameEN != "" {
			return d.NameEN
		}
	case "de":
		if d.NameDE != "" {
			return d.NameDE
		}
	}
	return d.NameIT
}
