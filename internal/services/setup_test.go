package services

import (
	"testing"

	"github.com/teranga-editions/platform/internal/models"
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

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createWork(t *testing.T, db *gorm.DB, code string, price int64, stock int) *models.Work {
	t.Helper()
	var discipline models.Discipline
	err := db.Where("name = ?", "Mathématiques").First(&discipline).Error
	if err == gorm.ErrRecordNotFound {
		discipline = models.Discipline{Name: "Mathématiques", Code: "MATH"}
		if err := db.Create(&discipline).Error; err != nil {
			t.Fatalf("create discipline: %v", err)
		}
	} else if err != nil {
		t.Fatalf("load discipline: %v", err)
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
