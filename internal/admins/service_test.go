package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/foliolabs/folio-api/internal/ids"
	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Admin{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	service, err := NewService(ServiceConfig{
		Database:   db,
		IDProvider: ids.NewUUIDProvider(),
		Logger:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return service, db
}

func TestEnsureAdminSeedsAccountOnce(t *testing.T) {
	service, db := newTestService(t)

	if err := service.EnsureAdmin(context.Background(), "admin", "swordfish"); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}
	if err := service.EnsureAdmin(context.Background(), "admin", "different-password"); err != nil {
		t.Fatalf("second ensure failed: %v", err)
	}

	var count int64
	if err := db.Model(&Admin{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one admin account, got %d", count)
	}

	// The original password still authenticates; the second call was a no-op.
	if _, err := service.Authenticate(context.Background(), "admin", "swordfish"); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
}

func TestEnsureAdminStoresBcryptHashOnly(t *testing.T) {
	service, db := newTestService(t)

	if err := service.EnsureAdmin(context.Background(), "admin", "swordfish"); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}

	var stored Admin
	if err := db.Where("username = ?", "admin").Take(&stored).Error; err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if stored.PasswordHash == "swordfish" {
		t.Fatalf("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("swordfish")); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestEnsureAdminRequiresCredentials(t *testing.T) {
	service, _ := newTestService(t)

	if err := service.EnsureAdmin(context.Background(), "  ", "password"); err == nil {
		t.Fatalf("expected error for blank username")
	}
	if err := service.EnsureAdmin(context.Background(), "admin", ""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}

func TestAuthenticateRejectsWrongPasswordAndUnknownUser(t *testing.T) {
	service, _ := newTestService(t)

	if err := service.EnsureAdmin(context.Background(), "admin", "swordfish"); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}

	if _, err := service.Authenticate(context.Background(), "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "nobody", "swordfish"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthenticateReturnsAccount(t *testing.T) {
	service, _ := newTestService(t)

	if err := service.EnsureAdmin(context.Background(), "admin", "swordfish"); err != nil {
		t.Fatalf("ensure failed: %v", err)
	}

	admin, err := service.Authenticate(context.Background(), "admin", "swordfish")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if admin.ID == "" || admin.Username != "admin" {
		t.Fatalf("unexpected account: %#v", admin)
	}
}
