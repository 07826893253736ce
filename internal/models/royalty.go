package models

import (
	"time"

	"gorm.io/gorm"
)

// Rates applied when accruing royalties and commissions. They live here and
// nowhere else so a call site can never diverge from the convention.
const (
	RoyaltyRatePercent    = 15
	CommissionRatePercent = 10
)

// PercentOf returns amount × percent / 100, rounded half away from zero.
func PercentOf(amount int64, percent int64) int64 {
	raw := amount * percent
	if raw >= 0 {
		return (raw + 50) / 100
	}
	return (raw - 50) / 100
}

// Royalty is an amount owed to a work's author or concepteur for one sold
// order line. The unique OrderItemID guarantees at most one accrual per line.
type Royalty struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	WorkID uint  `gorm:"index;not null" json:"work_id"`
	Work   *Work `gorm:"foreignKey:WorkID" json:"work,omitempty"`

	// BeneficiaryID is the author or concepteur owed the amount.
	BeneficiaryID uint `gorm:"index;not null" json:"beneficiary_id"`
	Beneficiary   User `gorm:"foreignKey:BeneficiaryID" json:"-"`

	OrderItemID uint `gorm:"uniqueIndex;not null" json:"order_item_id"`

	Amount int64 `gorm:"not null" json:"amount"`

	Paid          bool       `gorm:"not null;default:false;index" json:"paid"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaymentMethod string     `gorm:"size:50" json:"payment_method,omitempty"`
}

// Commission is an amount owed to a representative for a validated order.
// The unique OrderID guarantees at most one accrual per order.
type Commission struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	OrderID uint   `gorm:"uniqueIndex;not null" json:"order_id"`
	Order   *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`

	RepresentantID uint `gorm:"index;not null" json:"representant_id"`
	Representant   User `gorm:"foreignKey:RepresentantID" json:"-"`

	Amount int64 `gorm:"not null" json:"amount"`

	Paid          bool       `gorm:"not null;default:false;index" json:"paid"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	PaymentMethod string     `gorm:"size:50" json:"payment_method,omitempty"`
}
