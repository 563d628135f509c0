package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Society is a fencing society listed in the public directory.
//
// Lifecycle: created unapproved by any authenticated user, then either
// approved or rejected (soft-deleted) by a platform admin. Rejected rows stay
// in the table for audit but are excluded from every listing. Slug and
// CodiceFiscale are identity-bearing: no handler mutates them after creation.
type Society struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Slug           string `gorm:"uniqueIndex;size:180;not null" json:"slug"`
	Name           string `gorm:"size:160;not null" json:"name"`
	RagioneSociale string `gorm:"size:255;not null" json:"ragione_sociale"`
	CodiceFiscale  string `gorm:"size:16;not null" json:"codice_fiscale"`
	Sede           string `gorm:"size:255;not null" json:"sede"`
	City           string `gorm:"size:120" json:"city,omitempty"`
	Province       string `gorm:"size:120" json:"province,omitempty"`
	Description    string `gorm:"size:2000" json:"description,omitempty"`

	Approved   bool       `gorm:"default:false;not null" json:"approved"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	ApprovedBy *uuid.UUID `gorm:"type:uuid" json:"approved_by,omitempty"`
	CreatedBy  uuid.UUID  `gorm:"type:uuid;index" json:"created_by"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (s *Society) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
