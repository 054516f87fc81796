package configs

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/igRoy3/SmartWasteManagement/entity"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(source string) {
	database, err := gorm.Open(sqlite.Open(source), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {
	// Migrate the schema
	db.AutoMigrate(
		&entity.User{},
		&entity.Report{}, &entity.StatusUpdate{}, &entity.ReportComment{},
		&entity.CollectionTask{},
	)
}
