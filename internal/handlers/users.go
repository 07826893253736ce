package handlers

import (
	"net/http"
	"strconv"

	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/models"
	"github.com/teranga-editions/platform/internal/policy"
	"gorm.io/gorm"
)

// UserHandler is the management user administration surface.
type UserHandler struct {
	db   *gorm.DB
	gate *policy.AuthGate
}

func NewUserHandler(db *gorm.DB, ag *policy.AuthGate) *UserHandler {
	return &UserHandler{db: db, gate: ag}
}

// List: GET /api/users?role=&page=
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit := 50
	db := h.db
	if role := r.URL.Query().Get("role"); role != "" {
		db = db.Where("role = ?", role)
	}

	var total int64
	db.Model(&models.User{}).Count(&total)
	var users []models.User
	if err := db.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&users).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_users", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items": users, "total": total, "page": page, "limit": limit,
	})
}

type roleReq struct {
	Role models.Role `json:"role"`
}

// AssignRole: PATCH /api/users/{id}/role
// The cached permission profile is invalidated so the new role applies to the
// user's next request.
func (h *UserHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req roleReq
	if err := decodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if !req.Role.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed",
			map[string]string{"role": "unknown_role"})
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err := h.db.Model(&user).Update("role", req.Role).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_user", nil)
		return
	}
	user.Role = req.Role
	h.gate.InvalidateUser(user.ID)
	httpx.JSON(w, http.StatusOK, user)
}
