package services

import (
	"context"
	"time"

	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// CommissionSummary aggregates a representative's commissions.
type CommissionSummary struct {
	PendingCount  int64 `json:"pending_count"`
	PendingAmount int64 `json:"pending_amount"`
	PaidCount     int64 `json:"paid_count"`
	PaidAmount    int64 `json:"paid_amount"`
}

// CommissionService lists and settles representative commissions.
type CommissionService struct {
	db *gorm.DB
}

func NewCommissionService(db *gorm.DB) *CommissionService {
	return &CommissionService{db: db}
}

// List returns commissions for a representative (0 = all), newest first.
func (s *CommissionService) List(ctx context.Context, representantID uint, limit int) ([]models.Commission, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Preload("Order")
	if representantID != 0 {
		q = q.Where("representant_id = ?", representantID)
	}
	var commissions []models.Commission
	err := q.Order("created_at DESC").Limit(limit).Find(&commissions).Error
	return commissions, err
}

// Summary computes pending/paid totals for a representative (0 = everyone).
func (s *CommissionService) Summary(ctx context.Context, representantID uint) (CommissionSummary, error) {
	var summary CommissionSummary
	type row struct {
		Paid  bool
		Count int64
		Total int64
	}
	q := s.db.WithContext(ctx).Model(&models.Commission{}).
		Select("paid, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("paid")
	if representantID != 0 {
		q = q.Where("representant_id = ?", representantID)
	}
	var rows []row
	if err := q.Scan(&rows).Error; err != nil {
		return summary, err
	}
	for _, r := range rows {
		if r.Paid {
			summary.PaidCount, summary.PaidAmount = r.Count, r.Total
		} else {
			summary.PendingCount, summary.PendingAmount = r.Count, r.Total
		}
	}
	return summary, nil
}

// PayBatch marks the selected commissions paid, all-or-nothing.
func (s *CommissionService) PayBatch(ctx context.Context, ids []uint, method string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNothingToPay
	}
	var updated int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Commission{}).
			Where("id IN ? AND paid = ?", ids, false).
			Updates(map[string]any{"paid": true, "paid_at": now, "payment_method": method})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return ErrNothingToPay
		}
		updated = res.RowsAffected

		var commissions []models.Commission
		if err := tx.Where("id IN ?", ids).Find(&commissions).Error; err != nil {
			return err
		}
		seen := make(map[uint]bool)
		for _, c := range commissions {
			if seen[c.RepresentantID] {
				continue
			}
			seen[c.RepresentantID] = true
			notif := models.Notification{
				UserID:    c.RepresentantID,
				Type:      models.NotificationCommission,
				Title:     "commission_paid",
				Message:   "Vos commissions ont été versées",
				Reference: "commission_batch",
			}
			if err := tx.Create(&notif).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return updated, err
}
