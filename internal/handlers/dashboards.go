package handlers

import (
	"net/http"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/services"
)

// DashboardHandler serves the per-role overview payloads. Permission checks
// live in the route wiring; each endpoint only has to know whose data to load.
type DashboardHandler struct {
	dashboards  *services.DashboardService
	commissions *services.CommissionService
	royalties   *services.RoyaltyService
}

func NewDashboardHandler(dashboards *services.DashboardService, commissions *services.CommissionService, royalties *services.RoyaltyService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, commissions: commissions, royalties: royalties}
}

// PDG: GET /api/pdg/dashboard
func (h *DashboardHandler) PDG(w http.ResponseWriter, r *http.Request) {
	d, err := h.dashboards.PDGDashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

// Representant: GET /api/representant/dashboard
func (h *DashboardHandler) Representant(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	d, err := h.dashboards.RepresentantDashboard(r.Context(), userID, h.commissions)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

// Partner: GET /api/partenaire/dashboard
func (h *DashboardHandler) Partner(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	d, err := h.dashboards.PartnerDashboard(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

// Beneficiary: GET /api/auteur/dashboard and /api/concepteur/dashboard share
// the same read model, scoped to the works the caller contributed to.
func (h *DashboardHandler) Beneficiary(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	d, err := h.dashboards.BeneficiaryDashboard(r.Context(), userID, h.royalties)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}
