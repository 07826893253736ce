package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// OrderService drives orders through the explicit state machine. Every
// transition and its side effects (commission accrual, stock decrement,
// royalty accrual, notifications) commit in a single transaction.
type OrderService struct {
	db    *gorm.DB
	stock *StockService
}

func NewOrderService(db *gorm.DB, stock *StockService) *OrderService {
	return &OrderService{db: db, stock: stock}
}

// ErrForbiddenTransition is returned when the caller's role may not apply the
// event, as opposed to the event being impossible from the current status.
var ErrForbiddenTransition = errors.New("role may not apply this transition")

// eventRoles is the authorization table for lifecycle events. Cancellation is
// special-cased: the order owner may cancel their own pending order.
var eventRoles = map[models.OrderEvent]map[models.Role]bool{
	models.OrderEventValidate: {
		models.RolePDG: true, models.RoleDGA: true, models.RoleRepresentant: true,
	},
	models.OrderEventProcess: {
		models.RolePDG: true, models.RoleDGA: true,
	},
	models.OrderEventShip: {
		models.RolePDG: true, models.RoleDGA: true,
	},
	models.OrderEventDeliver: {
		models.RolePDG: true, models.RoleDGA: true, models.RoleRepresentant: true,
	},
	models.OrderEventCancel: {
		models.RolePDG: true, models.RoleDGA: true,
	},
}

// Actor identifies who requests a transition.
type Actor struct {
	UserID uint
	Role   models.Role
}

func (s *OrderService) mayApply(order *models.Order, event models.OrderEvent, actor Actor) bool {
	if eventRoles[event][actor.Role] {
		return true
	}
	// Owners may withdraw an order that has not been validated yet.
	if event == models.OrderEventCancel &&
		order.UserID == actor.UserID &&
		order.Status == models.OrderStatusPending {
		return true
	}
	return false
}

// Transition applies event to the order, running all side effects in the
// same transaction. Returns models.ErrInvalidTransition when the event is not
// allowed from the current status and ErrForbiddenTransition when the actor
// may not apply it.
func (s *OrderService) Transition(ctx context.Context, orderID uint, event models.OrderEvent, actor Actor) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !s.mayApply(&order, event, actor) {
			return ErrForbiddenTransition
		}

		next, err := order.Status.Next(event)
		if err != nil {
			return err
		}

		// Status update is conditional on the status read above so two
		// concurrent transitions cannot both apply.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrInvalidTransition
		}

		switch next {
		case models.OrderStatusValidated:
			if err := s.accrueCommission(tx, &order); err != nil {
				return err
			}
		case models.OrderStatusShipped:
			if err := s.shipItems(tx, &order, actor); err != nil {
				return err
			}
		case models.OrderStatusDelivered:
			if err := s.accrueRoyalties(tx, &order); err != nil {
				return err
			}
		}

		notif := models.Notification{
			UserID:    order.UserID,
			Type:      models.NotificationOrderStatus,
			Title:     "order_status_changed",
			Message:   fmt.Sprintf("Commande #%d : %s", order.ID, next),
			Reference: fmt.Sprintf("order:%d", order.ID),
		}
		if err := tx.Create(&notif).Error; err != nil {
			return err
		}

		order.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// accrueCommission credits the originating representative with 10% of the
// order total. The unique index on commissions.order_id makes the accrual
// idempotent.
func (s *OrderService) accrueCommission(tx *gorm.DB, order *models.Order) error {
	if order.RepresentantID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.Commission{}).Where("order_id = ?", order.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	commission := models.Commission{
		OrderID:        order.ID,
		RepresentantID: *order.RepresentantID,
		Amount:         models.PercentOf(order.TotalAmount, models.CommissionRatePercent),
	}
	return tx.Create(&commission).Error
}

// shipItems posts one OUT movement per order line through the stock ledger.
// Insufficient stock on any line rolls the whole transition back.
func (s *OrderService) shipItems(tx *gorm.DB, order *models.Order, actor Actor) error {
	for _, item := range order.Items {
		_, err := s.stock.PostMovementTx(tx, MovementInput{
			WorkID:      item.WorkID,
			Type:        models.MovementOut,
			Quantity:    -item.Quantity,
			Reason:      "expédition commande",
			Reference:   fmt.Sprintf("order:%d", order.ID),
			PerformedBy: actor.UserID,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// accrueRoyalties creates one royalty per delivered line whose work has an
// author or concepteur: 15% of the line total, to the author when both are
// set. The unique index on royalties.order_item_id caps accrual at one per
// line.
func (s *OrderService) accrueRoyalties(tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		var work models.Work
		if err := tx.First(&work, item.WorkID).Error; err != nil {
			return err
		}
		var beneficiary *uint
		switch {
		case work.AuthorID != nil:
			beneficiary = work.AuthorID
		case work.ConcepteurID != nil:
			beneficiary = work.ConcepteurID
		default:
			continue
		}
		var count int64
		if err := tx.Model(&models.Royalty{}).Where("order_item_id = ?", item.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		royalty := models.Royalty{
			WorkID:        work.ID,
			BeneficiaryID: *beneficiary,
			OrderItemID:   item.ID,
			Amount:        models.PercentOf(item.LineTotal(), models.RoyaltyRatePercent),
		}
		if err := tx.Create(&royalty).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get loads one order with its items.
func (s *OrderService) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items.Work").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
