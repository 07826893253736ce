package services

import (
	"context"
	"time"

	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// RoyaltySummary aggregates the payment state of a beneficiary's royalties.
type RoyaltySummary struct {
	PendingCount  int64 `json:"pending_count"`
	PendingAmount int64 `json:"pending_amount"`
	PaidCount     int64 `json:"paid_count"`
	PaidAmount    int64 `json:"paid_amount"`
}

// RoyaltyService lists and settles royalties.
type RoyaltyService struct {
	db *gorm.DB
}

func NewRoyaltyService(db *gorm.DB) *RoyaltyService {
	return &RoyaltyService{db: db}
}

// ListPending returns unpaid royalties, optionally scoped to a beneficiary
// (0 means all beneficiaries, for the management payment screen).
func (s *RoyaltyService) ListPending(ctx context.Context, beneficiaryID uint) ([]models.Royalty, error) {
	q := s.db.WithContext(ctx).Preload("Work").Where("paid = ?", false)
	if beneficiaryID != 0 {
		q = q.Where("beneficiary_id = ?", beneficiaryID)
	}
	var royalties []models.Royalty
	err := q.Order("created_at ASC").Find(&royalties).Error
	return royalties, err
}

// Summary computes pending/paid totals for a beneficiary (0 = everyone).
func (s *RoyaltyService) Summary(ctx context.Context, beneficiaryID uint) (RoyaltySummary, error) {
	var summary RoyaltySummary
	type row struct {
		Paid  bool
		Count int64
		Total int64
	}
	q := s.db.WithContext(ctx).Model(&models.Royalty{}).
		Select("paid, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("paid")
	if beneficiaryID != 0 {
		q = q.Where("beneficiary_id = ?", beneficiaryID)
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

// PayBatch marks the selected royalties paid with one method and date.
// All-or-nothing: an unknown or already-paid ID fails the whole batch.
func (s *RoyaltyService) PayBatch(ctx context.Context, ids []uint, method string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNothingToPay
	}
	var updated int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Royalty{}).
			Where("id IN ? AND paid = ?", ids, false).
			Updates(map[string]any{"paid": true, "paid_at": now, "payment_method": method})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			return ErrNothingToPay
		}
		updated = res.RowsAffected

		// One notification per beneficiary in the batch.
		var royalties []models.Royalty
		if err := tx.Where("id IN ?", ids).Find(&royalties).Error; err != nil {
			return err
		}
		seen := make(map[uint]bool)
		for _, r := range royalties {
			if seen[r.BeneficiaryID] {
				continue
			}
			seen[r.BeneficiaryID] = true
			notif := models.Notification{
				UserID:    r.BeneficiaryID,
				Type:      models.NotificationRoyaltyPaid,
				Title:     "royalty_paid",
				Message:   "Vos droits d'auteur ont été versés",
				Reference: "royalty_batch",
			}
			if err := tx.Create(&notif).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return updated, err
}
