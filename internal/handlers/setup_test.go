package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/teranga-editions/platform/internal/auth"
	"github.com/teranga-editions/platform/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Partner{},
		&models.Discipline{}, &models.Work{},
		&models.Order{}, &models.OrderItem{},
		&models.StockMovement{},
		&models.Royalty{}, &models.Commission{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := models.User{Email: email, Password: string(hash), Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createOnSaleWork(t *testing.T, db *gorm.DB, code string, price int64, stock int) *models.Work {
	t.Helper()
	discipline := models.Discipline{Name: "Discipline " + code, Code: code}
	if err := db.Create(&discipline).Error; err != nil {
		t.Fatalf("create discipline: %v", err)
	}
	work := models.Work{
		Title:        "Ouvrage " + code,
		Code:         code,
		Price:        price,
		Stock:        stock,
		MinStock:     5,
		Status:       models.WorkStatusOnSale,
		DisciplineID: discipline.ID,
	}
	if err := db.Create(&work).Error; err != nil {
		t.Fatalf("create work: %v", err)
	}
	return &work
}

// jsonRequest builds a request with a JSON body, authenticated as userID
// when non-zero.
func jsonRequest(method, target, body string, userID uint) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), userID))
	}
	return req
}

func uintStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}
