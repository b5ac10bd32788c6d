package database

import (
	"gorm.io/gorm"

	"github.com/bookahead/backend/models"
	"github.com/bookahead/backend/utils"
)

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.Owner{},
		&models.User{},
		&models.Restaurant{},
		&models.Table{},
		&models.FloorPlan{},
	}
}

// Migrate creates or updates the schema and backfills JSON columns that
// older rows may have left NULL.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	backfills := []struct {
		table, column string
	}{
		{"tables", "reservations"},
		{"restaurants", "images"},
		{"restaurants", "menu_images"},
	}
	for _, b := range backfills {
		res := db.Exec("UPDATE " + b.table + " SET " + b.column + " = '[]' WHERE " + b.column + " IS NULL")
		if res.Error != nil {
			utils.ErrorLogger.Printf("Error backfilling %s.%s: %v", b.table, b.column, res.Error)
			return res.Error
		}
		if res.RowsAffected > 0 {
			utils.InfoLogger.Printf("Backfilled %d rows of %s.%s", res.RowsAffected, b.table, b.column)
		}
	}
	return nil
}
