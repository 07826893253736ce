package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/teranga-editions/platform/internal/httpx"
	"github.com/teranga-editions/platform/internal/i18n"
	"github.com/teranga-editions/platform/internal/models"
	"github.com/teranga-editions/platform/internal/services"
)

// pathID parses the {id} segment of the route pattern.
func pathID(r *http.Request) (uint, bool) {
	id64, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id64 == 0 {
		return 0, false
	}
	return uint(id64), true
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeServiceError maps ledger sentinel errors onto the HTTP taxonomy. The
// error field stays a stable code; details carry the localized message.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFromContext(r.Context())
	code, status := "internal_error", http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		code, status = "not_found", http.StatusNotFound
	case errors.Is(err, services.ErrEmptyOrder),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidMovement),
		errors.Is(err, services.ErrNothingToPay):
		code, status = "validation_failed", http.StatusBadRequest
	case errors.Is(err, services.ErrWorkNotOnSale):
		code, status = "work_not_on_sale", http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientStock):
		code, status = "insufficient_stock", http.StatusBadRequest
	case errors.Is(err, services.ErrVersionConflict):
		code, status = "conflict", http.StatusConflict
	case errors.Is(err, models.ErrInvalidTransition):
		code, status = "invalid_transition", http.StatusConflict
	case errors.Is(err, services.ErrForbiddenTransition):
		code, status = "forbidden", http.StatusForbidden
	}
	httpx.JSONError(w, status, code, map[string]string{"message": i18n.T(lang, code)})
}
