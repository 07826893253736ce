package services

import (
	"context"
	"errors"

	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// CheckoutService creates orders with price snapshots. Duplicate submissions
// carrying the same idempotency key return the original order instead of
// creating a second one.
type CheckoutService struct {
	db *gorm.DB
}

func NewCheckoutService(db *gorm.DB) *CheckoutService {
	return &CheckoutService{db: db}
}

// CheckoutItem is one (work, quantity) pair from the cart.
type CheckoutItem struct {
	WorkID   uint `json:"work_id"`
	Quantity int  `json:"quantity"`
}

// CreateOrder creates one order with N items. The price of each item is
// snapshotted from the work at submission time; stock is not touched here
// (it is decremented when the order ships, through the stock ledger).
// The second return value is false when the idempotency key matched an
// existing order and no new row was created.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID uint, idemKey string, items []CheckoutItem) (*models.Order, bool, error) {
	if len(items) == 0 {
		return nil, false, ErrEmptyOrder
	}
	for _, it := range items {
		if it.WorkID == 0 || it.Quantity <= 0 {
			return nil, false, ErrInvalidQuantity
		}
	}

	// Replay: same key returns the order created by the first submission.
	if idemKey != "" {
		var existing models.Order
		err := s.db.WithContext(ctx).
			Preload("Items").
			Where("idempotency_key = ?", idemKey).
			First(&existing).Error
		if err == nil {
			return &existing, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, err
		}
	}

	workIDs := make([]uint, 0, len(items))
	for _, it := range items {
		workIDs = append(workIDs, it.WorkID)
	}
	var works []models.Work
	if err := s.db.WithContext(ctx).Where("id IN ?", workIDs).Find(&works).Error; err != nil {
		return nil, false, err
	}
	workByID := make(map[uint]models.Work, len(works))
	for _, w := range works {
		workByID[w.ID] = w
	}
	for _, it := range items {
		w, ok := workByID[it.WorkID]
		if !ok {
			return nil, false, ErrNotFound
		}
		if !w.OnSale() {
			return nil, false, ErrWorkNotOnSale
		}
	}

	// Partner orders carry the partner reference; representative orders carry
	// the originator so commission accrual knows who to credit.
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, false, err
	}
	order := models.Order{
		UserID: userID,
		Status: models.OrderStatusPending,
	}
	if idemKey != "" {
		order.IdempotencyKey = &idemKey
	}
	switch user.Role {
	case models.RolePartenaire:
		var partner models.Partner
		if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&partner).Error; err == nil {
			order.PartnerID = &partner.ID
		}
	case models.RoleRepresentant:
		order.RepresentantID = &userID
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderItems := make([]models.OrderItem, 0, len(items))
		var total int64
		for _, it := range items {
			w := workByID[it.WorkID]
			orderItems = append(orderItems, models.OrderItem{
				WorkID:    w.ID,
				Quantity:  it.Quantity,
				UnitPrice: w.Price,
			})
			total += w.Price * int64(it.Quantity)
		}
		order.TotalAmount = total
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for i := range orderItems {
			orderItems[i].OrderID = order.ID
		}
		if err := tx.Create(&orderItems).Error; err != nil {
			return err
		}
		order.Items = orderItems
		return nil
	})
	if err != nil {
		// Two concurrent submissions with the same key can both miss the
		// pre-check; the unique index decides and the loser replays the read.
		if idemKey != "" {
			var existing models.Order
			if ferr := s.db.WithContext(ctx).
				Preload("Items").
				Where("idempotency_key = ?", idemKey).
				First(&existing).Error; ferr == nil {
				return &existing, false, nil
			}
		}
		return nil, false, err
	}
	return &order, true, nil
}
