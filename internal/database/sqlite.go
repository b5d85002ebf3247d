package database

import (
	"fmt"

	"github.com/foliolabs/folio-api/internal/admins"
	"github.com/foliolabs/folio-api/internal/blog"
	"github.com/foliolabs/folio-api/internal/contact"
	"github.com/foliolabs/folio-api/internal/content"
	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OpenSQLite establishes a SQLite connection and performs schema migrations.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&content.SkillCategory{},
		&content.Skill{},
		&content.Project{},
		&content.Education{},
		&content.Experience{},
		&content.Achievement{},
		&blog.Post{},
		&blog.Tag{},
		&blog.Category{},
		&contact.Message{},
		&admins.Admin{},
		&migrationRecord{},
	); err != nil {
		return nil, err
	}

	if err := applyMigrations(db, logger); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("path", path))
	}

	return db, nil
}
