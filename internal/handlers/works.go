package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/models"
	"github.com/teranga-editions/platform/internal/validation"
	"gorm.io/gorm"
)

// WorkHandler serves the catalog and work administration.
type WorkHandler struct {
	db *gorm.DB
}

func NewWorkHandler(db *gorm.DB) *WorkHandler {
	return &WorkHandler{db: db}
}

// List: GET /api/works?q=&discipline_id=&status=&page=
func (h *WorkHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 20
	offset := (page - 1) * limit

	db := h.db.Preload("Discipline")
	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}
	if d := r.URL.Query().Get("discipline_id"); d != "" {
		db = db.Where("discipline_id = ?", d)
	}
	if s := r.URL.Query().Get("status"); s != "" {
		db = db.Where("status = ?", s)
	}

	var total int64
	db.Model(&models.Work{}).Count(&total)
	var works []models.Work
	if err := db.Order("title").Limit(limit).Offset(offset).Find(&works).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_works", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": works, "total": total, "page": page, "limit": limit,
	})
}

// View: GET /api/works/{id}
func (h *WorkHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var work models.Work
	if err := h.db.Preload("Discipline").Preload("Author").Preload("Concepteur").First(&work, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, work)
}

type workReq struct {
	Title        string `json:"title"`
	Code         string `json:"code"`
	Price        int64  `json:"price"`
	Stock        int    `json:"stock"`
	MinStock     int    `json:"min_stock"`
	MaxStock     int    `json:"max_stock"`
	DisciplineID uint   `json:"discipline_id"`
	AuthorID     *uint  `json:"author_id"`
}

// Create: POST /api/works. A concepteur submits a new title (DRAFT).
// The creator is recorded as the work's concepteur.
func (h *WorkHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req workReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	v := make(validation.Violations)
	validation.Required("title", req.Title, v)
	validation.Required("code", req.Code, v)
	validation.PositiveAmount("price", req.Price, v)
	if req.DisciplineID == 0 {
		v["discipline_id"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	work := models.Work{
		Title:        strings.TrimSpace(req.Title),
		Code:         strings.ToUpper(strings.TrimSpace(req.Code)),
		Price:        req.Price,
		Stock:        req.Stock,
		MinStock:     req.MinStock,
		MaxStock:     req.MaxStock,
		Status:       models.WorkStatusDraft,
		DisciplineID: req.DisciplineID,
		AuthorID:     req.AuthorID,
		ConcepteurID: &userID,
	}
	if work.MinStock <= 0 {
		work.MinStock = 5
	}
	if err := h.db.Create(&work).Error; err != nil {
		if strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
			httpx.JSONError(w, http.StatusBadRequest, "code_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_work", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, work)
}

// Update: PATCH /api/works/{id}. Price/thresholds/metadata, not stock.
// Stock only moves through the ledger.
func (h *WorkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var work models.Work
	if err := h.db.First(&work, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	var req workReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if req.Title != "" {
		work.Title = strings.TrimSpace(req.Title)
	}
	if req.Price > 0 {
		work.Price = req.Price
	}
	if req.MinStock > 0 {
		work.MinStock = req.MinStock
	}
	if req.MaxStock > 0 {
		work.MaxStock = req.MaxStock
	}
	if req.DisciplineID != 0 {
		work.DisciplineID = req.DisciplineID
	}
	if req.AuthorID != nil {
		work.AuthorID = req.AuthorID
	}
	if err := h.db.Omit("stock", "version").Save(&work).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_work", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, work)
}

type workStatusReq struct {
	Status models.WorkStatus `json:"status"`
}

// ChangeStatus: POST /api/works/{id}/status. DRAFT→SUBMITTED by the
// concepteur, SUBMITTED→ON_SALE (or back to DRAFT) by management. The route
// wiring enforces who may call this; the handler enforces the path.
func (h *WorkHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req workStatusReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var work models.Work
	if err := h.db.First(&work, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}

	allowed := map[models.WorkStatus][]models.WorkStatus{
		models.WorkStatusDraft:     {models.WorkStatusSubmitted},
		models.WorkStatusSubmitted: {models.WorkStatusOnSale, models.WorkStatusDraft},
		models.WorkStatusOnSale:    {models.WorkStatusDraft},
	}
	ok = false
	for _, next := range allowed[work.Status] {
		if next == req.Status {
			ok = true
			break
		}
	}
	if !ok {
		httpx.JSONError(w, http.StatusConflict, "invalid_transition", nil)
		return
	}
	if err := h.db.Model(&work).Update("status", req.Status).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_work", nil)
		return
	}
	work.Status = req.Status
	httpx.JSON(w, http.StatusOK, work)
}
