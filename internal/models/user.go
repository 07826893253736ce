package models

import (
	"time"

	"gorm.io/gorm"
)

// Role identifies the fixed set of profiles a user can hold.
type Role string

const (
	RolePDG          Role = "PDG"
	RoleDGA          Role = "DGA"
	RoleRepresentant Role = "REPRESENTANT"
	RoleConcepteur   Role = "CONCEPTEUR"
	RoleAuteur       Role = "AUTEUR"
	RolePartenaire   Role = "PARTENAIRE"
	RoleClient       Role = "CLIENT"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePDG, RoleDGA, RoleRepresentant, RoleConcepteur, RoleAuteur, RolePartenaire, RoleClient:
		return true
	}
	return false
}

// IsManagement reports whether the role has full back-office rights.
func (r Role) IsManagement() bool {
	return r == RolePDG || r == RoleDGA
}

// User represents an authenticated user in the system.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string         `gorm:"size:255" json:"name,omitempty"`
	Password  string         `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	// Role determines the permission profile resolved by the gate.
	Role Role `gorm:"size:20;not null;default:'CLIENT';index" json:"role"`
}
