package db

import (
	"os"

	"github.com/teranga-editions/platform/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed initializes the database with required seed data.
// Should be called after Migrate. Safe to run repeatedly.
func Seed(db *gorm.DB) error {
	if err := seedDisciplines(db); err != nil {
		return err
	}
	return seedAdminUser(db)
}

func seedDisciplines(db *gorm.DB) error {
	base := []models.Discipline{
		{Name: "Mathématiques", Code: "MATH"},
		{Name: "Français", Code: "FR"},
		{Name: "Sciences de la Vie et de la Terre", Code: "SVT"},
		{Name: "Histoire-Géographie", Code: "HG"},
		{Name: "Anglais", Code: "ANG"},
		{Name: "Philosophie", Code: "PHILO"},
	}
	for _, d := range base {
		var existing models.Discipline
		err := db.Where("name = ?", d.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&d).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}

// seedAdminUser creates the initial PDG account when no management user
// exists. Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role IN ?", []models.Role{models.RolePDG, models.RoleDGA}).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "pdg@teranga-editions.sn"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Email:    email,
		Name:     "Direction Générale",
		Password: string(hash),
		Role:     models.RolePDG,
	}).Error
}
