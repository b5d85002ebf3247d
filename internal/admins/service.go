// Package admins manages the administrator account behind the admin panel.
package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foliolabs/folio-api/internal/ids"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both unknown usernames and wrong passwords
// so login responses cannot distinguish the two.
var ErrInvalidCredentials = errors.New("admins: invalid credentials")

var noOpLogger = zap.NewNop()

// Admin is the persisted administrator account.
type Admin struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null"`
	Username     string    `gorm:"column:username;size:190;not null;uniqueIndex:idx_admins_username"`
	PasswordHash string    `gorm:"column:password_hash;size:190;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Admin) TableName() string {
	return "admins"
}

// ServiceConfig describes the dependencies for the admin account service.
type ServiceConfig struct {
	Database   *gorm.DB
	IDProvider ids.Provider
	Logger     *zap.Logger
}

// Service authenticates administrators and seeds the initial account.
type Service struct {
	db         *gorm.DB
	idProvider ids.Provider
	logger     *zap.Logger
}

// NewService validates the configuration and constructs the service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("admins: database handle is required")
	}
	if cfg.IDProvider == nil {
		return nil, fmt.Errorf("admins: id provider is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{db: cfg.Database, idProvider: cfg.IDProvider, logger: logger}, nil
}

// EnsureAdmin creates the configured administrator account when it does
// not exist yet. The password is stored as a bcrypt hash only.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	trimmedUsername := strings.TrimSpace(username)
	if trimmedUsername == "" || password == "" {
		return fmt.Errorf("admins: username and password are required")
	}

	var existing Admin
	err := s.db.WithContext(ctx).Where("username = ?", trimmedUsername).Take(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	id, err := s.idProvider.NewID()
	if err != nil {
		return err
	}
	admin := Admin{ID: id, Username: trimmedUsername, PasswordHash: string(hash)}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	s.logger.Info("admin account seeded", zap.String("username", trimmedUsername))
	return nil
}

// Authenticate verifies the username/password pair and returns the account.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Admin, error) {
	var admin Admin
	err := s.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).Take(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Admin{}, ErrInvalidCredentials
	}
	if err != nil {
		return Admin{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}
