package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teranga-editions/platform/internal/models"
	"github.com/teranga-editions/platform/internal/services"
	"gorm.io/gorm"
)

func newStockHandler(db *gorm.DB) *StockHandler {
	stock := services.NewStockService(db)
	return NewStockHandler(stock, services.NewDashboardService(db, stock), nil)
}

func TestPostMovement(t *testing.T) {
	db := setupTestDB(t)
	h := newStockHandler(db)
	pdg := createUser(t, db, "pdg@test.sn", "secret", models.RolePDG)
	work := createOnSaleWork(t, db, "MATH-01", 20000, 3)

	w := httptest.NewRecorder()
	h.PostMovement(w, jsonRequest(http.MethodPost, "/api/pdg/stock/movements",
		`{"work_id":`+uintStr(work.ID)+`,"type":"IN","quantity":10,"reason":"réassort"}`, pdg.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Movement models.StockMovement `json:"movement"`
		Work     models.Work          `json:"work"`
	}
	decodeBody(t, w, &resp)
	if resp.Movement.StockBefore != 3 || resp.Movement.StockAfter != 13 {
		t.Errorf("snapshots = %d→%d, want 3→13", resp.Movement.StockBefore, resp.Movement.StockAfter)
	}
	if resp.Work.Stock != 13 {
		t.Errorf("work stock = %d, want 13", resp.Work.Stock)
	}
	if resp.Movement.PerformedBy != pdg.ID {
		t.Errorf("performed_by = %d, want %d", resp.Movement.PerformedBy, pdg.ID)
	}
}

func TestPostMovement_Rejected(t *testing.T) {
	db := setupTestDB(t)
	h := newStockHandler(db)
	pdg := createUser(t, db, "pdg@test.sn", "secret", models.RolePDG)
	work := createOnSaleWork(t, db, "MATH-01", 20000, 3)

	// Exit larger than the current stock.
	w := httptest.NewRecorder()
	h.PostMovement(w, jsonRequest(http.MethodPost, "/api/pdg/stock/movements",
		`{"work_id":`+uintStr(work.ID)+`,"type":"OUT","quantity":-10}`, pdg.ID))
	if w.Code != http.StatusBadRequest {
		t.Errorf("insufficient stock status = %d, want 400", w.Code)
	}

	// Exit with a positive quantity contradicts the movement type.
	w1 := httptest.NewRecorder()
	h.PostMovement(w1, jsonRequest(http.MethodPost, "/api/pdg/stock/movements",
		`{"work_id":`+uintStr(work.ID)+`,"type":"OUT","quantity":2}`, pdg.ID))
	if w1.Code != http.StatusBadRequest {
		t.Errorf("sign mismatch status = %d, want 400", w1.Code)
	}

	// Missing work id.
	w2 := httptest.NewRecorder()
	h.PostMovement(w2, jsonRequest(http.MethodPost, "/api/pdg/stock/movements",
		`{"type":"IN","quantity":1}`, pdg.ID))
	if w2.Code != http.StatusBadRequest {
		t.Errorf("missing work_id status = %d, want 400", w2.Code)
	}

	// Unknown work.
	w3 := httptest.NewRecorder()
	h.PostMovement(w3, jsonRequest(http.MethodPost, "/api/pdg/stock/movements",
		`{"work_id":999,"type":"IN","quantity":1}`, pdg.ID))
	if w3.Code != http.StatusNotFound {
		t.Errorf("unknown work status = %d, want 404", w3.Code)
	}

	var count int64
	db.Model(&models.StockMovement{}).Count(&count)
	if count != 0 {
		t.Errorf("movement count = %d, want 0 after rejections", count)
	}
}

func TestStockOverviewEndpoint(t *testing.T) {
	db := setupTestDB(t)
	h := newStockHandler(db)
	pdg := createUser(t, db, "pdg@test.sn", "secret", models.RolePDG)
	createOnSaleWork(t, db, "MATH-01", 20000, 0)
	createOnSaleWork(t, db, "MATH-02", 15000, 40)

	w := httptest.NewRecorder()
	h.Overview(w, jsonRequest(http.MethodGet, "/api/pdg/stock", "", pdg.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Summary struct {
			TotalWorks int64 `json:"total_works"`
			TotalUnits int64 `json:"total_units"`
			OutCount   int64 `json:"out_count"`
		} `json:"summary"`
	}
	decodeBody(t, w, &resp)
	if resp.Summary.TotalWorks != 2 || resp.Summary.TotalUnits != 40 || resp.Summary.OutCount != 1 {
		t.Errorf("summary = %+v", resp.Summary)
	}
}
