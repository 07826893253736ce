package handlers

import (
	"net/http"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/metrics"
	"github.com/teranga-editions/platform/internal/models"
	"github.com/teranga-editions/platform/internal/services"
)

// StockHandler serves the management stock screen and movement postings.
type StockHandler struct {
	stock      *services.StockService
	dashboards *services.DashboardService
	metrics    *metrics.Metrics
}

func NewStockHandler(stock *services.StockService, dashboards *services.DashboardService, m *metrics.Metrics) *StockHandler {
	return &StockHandler{stock: stock, dashboards: dashboards, metrics: m}
}

// Overview: GET /api/pdg/stock
func (h *StockHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboards.StockOverview(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, overview)
}

type movementReq struct {
	WorkID    uint                `json:"work_id"`
	Type      models.MovementType `json:"type"`
	Quantity  int                 `json:"quantity"`
	Reason    string              `json:"reason"`
	Reference string              `json:"reference"`
}

// PostMovement: POST /api/pdg/stock/movements
// 201 with the created movement and updated work; 400 when the resulting
// stock would be negative; 409 on a concurrent update.
func (h *StockHandler) PostMovement(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req movementReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.WorkID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"work_id": "required"})
		return
	}

	movement, work, err := h.stock.PostMovement(r.Context(), services.MovementInput{
		WorkID:      req.WorkID,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Reason:      req.Reason,
		Reference:   req.Reference,
		PerformedBy: userID,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.StockMovements.WithLabelValues(string(req.Type), "rejected").Inc()
		}
		writeServiceError(w, r, err)
		return
	}
	if h.metrics != nil {
		h.metrics.StockMovements.WithLabelValues(string(req.Type), "posted").Inc()
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"movement": movement,
		"work":     work,
	})
}
