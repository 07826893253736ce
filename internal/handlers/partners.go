package handlers

import (
	"net/http"
	"strings"

	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/models"
	"github.com/teranga-editions/platform/internal/validation"
	"gorm.io/gorm"
)

// PartnerHandler is the management surface for partner organizations.
type PartnerHandler struct {
	db *gorm.DB
}

func NewPartnerHandler(db *gorm.DB) *PartnerHandler {
	return &PartnerHandler{db: db}
}

// List: GET /api/partners
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	var partners []models.Partner
	if err := h.db.Order("name").Find(&partners).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_partners", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": partners})
}

type partnerReq struct {
	Name   string             `json:"name"`
	Type   models.PartnerType `json:"type"`
	City   string             `json:"city"`
	UserID uint               `json:"user_id"`
}

// Create: POST /api/partners. Links an organization to an existing user,
// which is then switched to the PARTENAIRE role.
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req partnerReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	if req.Type != models.PartnerBookstore && req.Type != models.PartnerDistributor {
		v["type"] = "unknown_type"
	}
	if req.UserID == 0 {
		v["user_id"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	partner := models.Partner{
		Name:   strings.TrimSpace(req.Name),
		Type:   req.Type,
		City:   strings.TrimSpace(req.City),
		UserID: req.UserID,
	}
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&partner).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("role", models.RolePartenaire).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			httpx.JSONError(w, http.StatusBadRequest, "user_already_linked", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_partner", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, partner)
}

// Update: PATCH /api/partners/{id}
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var partner models.Partner
	if err := h.db.First(&partner, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	var req partnerReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Name != "" {
		partner.Name = strings.TrimSpace(req.Name)
	}
	if req.Type == models.PartnerBookstore || req.Type == models.PartnerDistributor {
		partner.Type = req.Type
	}
	if req.City != "" {
		partner.City = strings.TrimSpace(req.City)
	}
	if err := h.db.Save(&partner).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_partner", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, partner)
}
