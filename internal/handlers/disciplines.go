package handlers

import (
	"net/http"
	"strings"

	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/models"
	"github.com/teranga-editions/platform/internal/validation"
	"gorm.io/gorm"
)

// DisciplineHandler is the management surface for catalog categories.
type DisciplineHandler struct {
	db *gorm.DB
}

func NewDisciplineHandler(db *gorm.DB) *DisciplineHandler {
	return &DisciplineHandler{db: db}
}

// List: GET /api/disciplines. Public catalog metadata.
func (h *DisciplineHandler) List(w http.ResponseWriter, r *http.Request) {
	var disciplines []models.Discipline
	if err := h.db.Order("name").Find(&disciplines).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_disciplines", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": disciplines})
}

type disciplineReq struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Create: POST /api/disciplines
func (h *DisciplineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req disciplineReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := make(validation.Violations)
	validation.Required("name", req.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	discipline := models.Discipline{
		Name: strings.TrimSpace(req.Name),
		Code: strings.ToUpper(strings.TrimSpace(req.Code)),
	}
	if err := h.db.Create(&discipline).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			httpx.JSONError(w, http.StatusBadRequest, "name_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_discipline", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, discipline)
}
