package models

import "time"

// NotificationType classifies a feed entry.
type NotificationType string

const (
	NotificationOrderStatus NotificationType = "ORDER_STATUS"
	NotificationRoyaltyPaid NotificationType = "ROYALTY_PAID"
	NotificationStockAlert  NotificationType = "STOCK_ALERT"
	NotificationCommission  NotificationType = "COMMISSION"
)

// Notification is a persisted feed entry for a user. Read flags are stored
// here rather than kept client-side so a PATCH survives reloads.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Type    NotificationType `gorm:"size:30;not null" json:"type"`
	Title   string           `gorm:"size:255;not null" json:"title"`
	Message string           `gorm:"size:1000" json:"message,omitempty"`

	// Reference points back at the order/royalty/movement that produced the
	// entry, e.g. "order:42".
	Reference string `gorm:"size:100" json:"reference,omitempty"`

	Read bool `gorm:"not null;default:false;index" json:"read"`
}

// GetUserID implements the Ownable interface for authorization.
func (n *Notification) GetUserID() uint {
	return n.UserID
}
