package services

import (
	"context"

	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// NotificationService reads and updates a user's persisted feed. Entries are
// created by the order and settlement services as part of their transactions.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// List returns the user's feed, newest first, with the unread count.
func (s *NotificationService) List(ctx context.Context, userID uint, limit int) ([]models.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var notifications []models.Notification
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	var unread int64
	err = s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&unread).Error
	return notifications, unread, err
}

// MarkRead flips the read flag on the user's own notifications. IDs that do
// not belong to the user are ignored, not an error.
func (s *NotificationService) MarkRead(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND id IN ? AND read = ?", userID, ids, false).
		Update("read", true)
	return res.RowsAffected, res.Error
}
