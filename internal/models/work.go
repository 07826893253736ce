package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkStatus represents the lifecycle of a sellable title.
type WorkStatus string

const (
	WorkStatusDraft     WorkStatus = "DRAFT"
	WorkStatusSubmitted WorkStatus = "SUBMITTED"
	WorkStatusOnSale    WorkStatus = "ON_SALE"
)

// StockLevel classifies the current stock of a work for dashboards.
type StockLevel string

const (
	StockLevelOut       StockLevel = "out"
	StockLevelLow       StockLevel = "low"
	StockLevelAvailable StockLevel = "available"
)

// Discipline is a simple category label referenced by works.
type Discipline struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Name      string         `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Code      string         `gorm:"size:20" json:"code,omitempty"`
}

// Work is a sellable title in the catalog.
type Work struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Title string `gorm:"size:255;not null" json:"title"`
	Code  string `gorm:"size:50;uniqueIndex" json:"code"`

	// Price in FCFA, no sub-unit.
	Price int64 `gorm:"not null" json:"price"`

	// Stock is guarded by Version: every stock write must be a conditional
	// update on the version column so concurrent movements cannot lose one
	// another's delta.
	Stock    int  `gorm:"not null;default:0" json:"stock"`
	Version  uint `gorm:"not null;default:0" json:"-"`
	MinStock int  `gorm:"not null;default:5" json:"min_stock"`
	MaxStock int  `gorm:"not null;default:0" json:"max_stock"`

	Status WorkStatus `gorm:"size:20;not null;default:'DRAFT'" json:"status"`

	DisciplineID uint        `gorm:"index;not null" json:"discipline_id"`
	Discipline   *Discipline `gorm:"foreignKey:DisciplineID" json:"discipline,omitempty"`

	// AuthorID / ConcepteurID reference the users owed royalties on sales.
	AuthorID     *uint `gorm:"index" json:"author_id,omitempty"`
	Author       *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ConcepteurID *uint `gorm:"index" json:"concepteur_id,omitempty"`
	Concepteur   *User `gorm:"foreignKey:ConcepteurID" json:"concepteur,omitempty"`
}

// StockStatus classifies the current stock against the minimum threshold.
func (w *Work) StockStatus() StockLevel {
	switch {
	case w.Stock <= 0:
		return StockLevelOut
	case w.Stock <= w.MinStock:
		return StockLevelLow
	default:
		return StockLevelAvailable
	}
}

// OnSale reports whether the work can appear in checkout.
func (w *Work) OnSale() bool {
	return w.Status == WorkStatusOnSale
}
