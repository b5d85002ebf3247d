package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationClampNegativeDisplayOrder = "2026-04-11_clamp_negative_display_order"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationClampNegativeDisplayOrder, apply: clampNegativeDisplayOrder},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// clampNegativeDisplayOrder repairs rows imported from the previous site
// export, where unsorted entries carried -1 sentinels instead of 0.
func clampNegativeDisplayOrder(db *gorm.DB) error {
	tables := []string{
		"skill_categories",
		"skills",
		"projects",
		"education_entries",
		"experience_entries",
		"achievements",
	}
	for _, table := range tables {
		if err := db.Exec("UPDATE " + table + " SET display_order = 0 WHERE display_order < 0;").Error; err != nil {
			return err
		}
	}
	return nil
}
