package handlers

import (
	"net/http"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/policy"
	"github.com/teranga-editions/platform/internal/services"
)

// CommissionHandler serves commission listings and the batch payment action.
type CommissionHandler struct {
	commissions *services.CommissionService
	gate        *policy.AuthGate
}

func NewCommissionHandler(commissions *services.CommissionService, ag *policy.AuthGate) *CommissionHandler {
	return &CommissionHandler{commissions: commissions, gate: ag}
}

// List: GET /api/representant/commissions
// Scoped to the caller unless management.
func (h *CommissionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	scope := userID
	if h.gate.Role(r.Context()).IsManagement() {
		scope = 0
	}
	commissions, err := h.commissions.List(r.Context(), scope, 50)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	summary, err := h.commissions.Summary(r.Context(), scope)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	recent := commissions
	if len(recent) > 5 {
		recent = recent[:5]
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"summary":           summary,
		"commissions":       commissions,
		"recentCommissions": recent,
	})
}

// Pay: POST /api/commissions/pay. Management-only batch settlement.
func (h *CommissionHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "virement"
	}
	paid, err := h.commissions.PayBatch(r.Context(), req.IDs, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	summary, err := h.commissions.Summary(r.Context(), 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"paid":    paid,
		"summary": summary,
	})
}
