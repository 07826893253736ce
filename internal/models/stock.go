package models

import "time"

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut || t == MovementAdjustment
}

// StockMovement is an append-only record of a stock delta on a work.
// StockBefore/StockAfter snapshot the work's stock around the movement so the
// history can always be reconciled against the current count.
type StockMovement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	WorkID uint  `gorm:"index;not null" json:"work_id"`
	Work   *Work `gorm:"foreignKey:WorkID" json:"work,omitempty"`

	Type MovementType `gorm:"size:20;not null" json:"type"`

	// Quantity is signed: positive for entries, negative for exits.
	Quantity    int `gorm:"not null" json:"quantity"`
	StockBefore int `gorm:"not null" json:"stock_before"`
	StockAfter  int `gorm:"not null" json:"stock_after"`

	Reason    string `gorm:"size:255" json:"reason,omitempty"`
	Reference string `gorm:"size:100" json:"reference,omitempty"`

	// PerformedBy is the user who posted the movement.
	PerformedBy uint `gorm:"index;not null" json:"performed_by"`
}
