package db

import (
	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/teranga-editions/platform/internal/models"
	"gorm.io/gorm"
)

// Migrate runs AutoMigrate for all models.
// Call this at application startup or as part of a migration step.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Accounts & partners
		&models.User{},
		&models.Partner{},
		// Catalog
		&models.Discipline{},
		&models.Work{},
		// Sales
		&models.Order{},
		&models.OrderItem{},
		// Inventory
		&models.StockMovement{},
		// Settlements
		&models.Royalty{},
		&models.Commission{},
		// Feeds
		&models.Notification{},
	)
}

// MigrateSQL executes the SQL migrations in ./migrations using the
// golang-migrate file source. Production deployments prefer this over
// AutoMigrate; dsn must be in URL form.
func MigrateSQL(dsnURL string) error {
	m, err := migrate.New("file://migrations", dsnURL)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
