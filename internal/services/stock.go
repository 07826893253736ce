package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// StockService posts stock movements. A movement and the stock update on the
// work commit together or not at all, and the work's version column guards
// against lost updates under concurrent postings.
type StockService struct {
	db *gorm.DB
}

func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// MovementInput describes one stock movement to post.
type MovementInput struct {
	WorkID      uint
	Type        models.MovementType
	Quantity    int // signed: positive entry, negative exit
	Reason      string
	Reference   string
	PerformedBy uint
}

// PostMovement applies the movement atomically and returns the created
// record together with the updated work.
func (s *StockService) PostMovement(ctx context.Context, in MovementInput) (*models.StockMovement, *models.Work, error) {
	var movement *models.StockMovement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := s.PostMovementTx(tx, in)
		movement = m
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	var work models.Work
	if err := s.db.WithContext(ctx).First(&work, in.WorkID).Error; err != nil {
		return nil, nil, err
	}
	return movement, &work, nil
}

// PostMovementTx posts a movement inside an existing transaction. Order
// shipping uses it so item decrements commit with the status change.
func (s *StockService) PostMovementTx(tx *gorm.DB, in MovementInput) (*models.StockMovement, error) {
	if !in.Type.Valid() {
		return nil, ErrInvalidMovement
	}
	if in.Quantity == 0 {
		return nil, ErrInvalidQuantity
	}
	// The quantity is signed; its sign must agree with the movement type.
	if (in.Type == models.MovementIn && in.Quantity < 0) ||
		(in.Type == models.MovementOut && in.Quantity > 0) {
		return nil, ErrInvalidQuantity
	}

	var work models.Work
	if err := tx.First(&work, in.WorkID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	newStock := work.Stock + in.Quantity
	if newStock < 0 {
		return nil, ErrInsufficientStock
	}

	// Every ledger entry carries a reference; generate one when the caller
	// has no external document to point at.
	if in.Reference == "" {
		in.Reference = "mvt-" + uuid.NewString()
	}

	movement := models.StockMovement{
		WorkID:      work.ID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		StockBefore: work.Stock,
		StockAfter:  newStock,
		Reason:      in.Reason,
		Reference:   in.Reference,
		PerformedBy: in.PerformedBy,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, err
	}

	// Conditional update on the version column: if another movement committed
	// in between, zero rows match and the enclosing tx rolls back.
	res := tx.Model(&models.Work{}).
		Where("id = ? AND version = ?", work.ID, work.Version).
		Updates(map[string]any{"stock": newStock, "version": work.Version + 1})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrVersionConflict
	}
	return &movement, nil
}

// RecentMovements lists the latest movements with their works preloaded.
func (s *StockService) RecentMovements(ctx context.Context, limit int) ([]models.StockMovement, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var movements []models.StockMovement
	err := s.db.WithContext(ctx).
		Preload("Work").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}
