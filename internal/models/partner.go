package models

import (
	"time"

	"gorm.io/gorm"
)

// PartnerType distinguishes the kind of partner organization.
type PartnerType string

const (
	PartnerBookstore   PartnerType = "LIBRAIRIE"
	PartnerDistributor PartnerType = "DISTRIBUTEUR"
)

// Partner is an organization (bookstore, distributor) linked 1:1 to a user
// account with the PARTENAIRE role.
type Partner struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name string      `gorm:"size:255;not null" json:"name"`
	Type PartnerType `gorm:"size:20;not null" json:"type"`
	City string      `gorm:"size:100" json:"city,omitempty"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`
}

// GetUserID implements the Ownable interface for authorization.
func (p *Partner) GetUserID() uint {
	return p.UserID
}
