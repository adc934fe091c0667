// Package database opens the destination store and keeps its schema current.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/villagecare/cms-sync/pkg/models"
)

// Connect opens the Postgres destination store from a DSN.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates all destination tables. The unique indexes on
// the natural-key tuples are what make the ON CONFLICT upserts atomic.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Community{},
		&models.OwnershipRecord{},
		&models.Deficiency{},
		&models.StaffingRollup{},
		&models.QualityMeasure{},
		&models.InspectionReport{},
	)
}
