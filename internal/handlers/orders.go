package handlers

import (
	"net/http"
	"strconv"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/idempotency"
	"github.com/teranga-editions/platform/internal/metrics"
	"github.com/teranga-editions/platform/internal/models"
	"github.com/teranga-editions/platform/internal/policy"
	"github.com/teranga-editions/platform/internal/services"
	"gorm.io/gorm"
)

// OrderHandler serves checkout and the order lifecycle.
type OrderHandler struct {
	db       *gorm.DB
	checkout *services.CheckoutService
	orders   *services.OrderService
	gate     *policy.AuthGate
	metrics  *metrics.Metrics
}

func NewOrderHandler(db *gorm.DB, checkout *services.CheckoutService, orders *services.OrderService, ag *policy.AuthGate, m *metrics.Metrics) *OrderHandler {
	return &OrderHandler{db: db, checkout: checkout, orders: orders, gate: ag, metrics: m}
}

type checkoutReq struct {
	Items []services.CheckoutItem `json:"items"`
}

// Create: POST /api/orders, the checkout. 201 on creation, 200 when the
// Idempotency-Key matched a previous submission.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var req checkoutReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	order, created, err := h.checkout.CreateOrder(r.Context(), userID, idempotency.Key(r), req.Items)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
		if h.metrics != nil {
			h.metrics.OrdersCreated.Inc()
		}
	}
	httpx.JSON(w, status, order)
}

// List: GET /api/orders. The caller's own orders; management sees all.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	if h.gate.Role(r.Context()).IsManagement() {
		if limit <= 0 || limit > 100 {
			limit = 50
		}
		var orders []models.Order
		q := h.db.Preload("Items").Order("created_at DESC").Limit(limit)
		if s := r.URL.Query().Get("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if err := q.Find(&orders).Error; err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": orders})
		return
	}

	orders, err := h.orders.ListForUser(r.Context(), userID, limit)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": orders})
}

// View: GET /api/orders/{id}. Owner or management only.
func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	role := h.gate.Role(r.Context())
	if order.UserID != userID && !role.IsManagement() &&
		!(role == models.RoleRepresentant && order.RepresentantID != nil && *order.RepresentantID == userID) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// transitionEvents maps the action path segment to a lifecycle event.
var transitionEvents = map[string]models.OrderEvent{
	"validate": models.OrderEventValidate,
	"process":  models.OrderEventProcess,
	"ship":     models.OrderEventShip,
	"deliver":  models.OrderEventDeliver,
	"cancel":   models.OrderEventCancel,
}

// Transition: POST /api/orders/{id}/{event}
func (h *OrderHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	event, ok := transitionEvents[r.PathValue("event")]
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_event", nil)
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	actor := services.Actor{UserID: userID, Role: h.gate.Role(r.Context())}

	order, err := h.orders.Transition(r.Context(), id, event, actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}
