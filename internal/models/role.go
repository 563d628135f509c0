package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names recognized by the authorization gate.
const (
	RolePlatformAdmin  = "platform_admin"
	RoleSocietyManager = "society_manager"
)

// KnownRole reports whether name is one of the recognized role names.
func KnownRole(name string) bool {
	return name == RolePlatformAdmin || name == RoleSocietyManager
}

// UserRole grants a named role to a user. The composite primary key gives
// set semantics: a (user, role) pair exists at most once. Rows are created
// by grant and removed by revoke, never updated in place.
type UserRole struct {
	UserID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string     `gorm:"size:50;primaryKey" json:"role"`
	GrantedBy *uuid.UUID `gorm:"type:uuid" json:"granted_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
