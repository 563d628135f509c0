package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an authenticated user in the system.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON

	Profile *Profile   `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	Roles   []UserRole `gorm:"foreignKey:UserID" json:"roles,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Profile holds the user-editable account data, one row per user.
// Email is a denormalized copy kept in sync at signup.
type Profile struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	UserID            uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	FullName          string    `gorm:"size:120" json:"full_name"`
	PreferredLanguage string    `gorm:"size:10" json:"preferred_language,omitempty"`
	Timezone          string    `gorm:"size:120" json:"timezone,omitempty"`
	Email             string    `gorm:"size:255" json:"email"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
