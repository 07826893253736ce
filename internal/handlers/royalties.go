package handlers

import (
	"net/http"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/policy"
	"github.com/teranga-editions/platform/internal/services"
)

// RoyaltyHandler serves royalty listings and the batch payment action.
type RoyaltyHandler struct {
	royalties *services.RoyaltyService
	gate      *policy.AuthGate
}

func NewRoyaltyHandler(royalties *services.RoyaltyService, ag *policy.AuthGate) *RoyaltyHandler {
	return &RoyaltyHandler{royalties: royalties, gate: ag}
}

// Pending: GET /api/royalties/pending
// Management sees every pending royalty; a beneficiary only their own.
func (h *RoyaltyHandler) Pending(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	scope := userID
	if h.gate.Role(r.Context()).IsManagement() {
		scope = 0
	}
	pending, err := h.royalties.ListPending(r.Context(), scope)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	summary, err := h.royalties.Summary(r.Context(), scope)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"royalties": pending,
		"summary":   summary,
	})
}

type payReq struct {
	IDs           []uint `json:"ids"`
	PaymentMethod string `json:"payment_method"`
}

// Pay: POST /api/royalties/pay. Management-only batch settlement.
func (h *RoyaltyHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = "virement"
	}
	paid, err := h.royalties.PayBatch(r.Context(), req.IDs, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	summary, err := h.royalties.Summary(r.Context(), 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"paid":    paid,
		"summary": summary,
	})
}
