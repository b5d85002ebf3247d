package server

import (
	"bytes"
	contextpkg "context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/foliolabs/folio-api/internal/admins"
	"github.com/foliolabs/folio-api/internal/assist"
	"github.com/foliolabs/folio-api/internal/auth"
	"github.com/foliolabs/folio-api/internal/blog"
	"github.com/foliolabs/folio-api/internal/cache"
	"github.com/foliolabs/folio-api/internal/contact"
	"github.com/foliolabs/folio-api/internal/content"
	"github.com/foliolabs/folio-api/internal/ids"
	sqlite "github.com/glebarez/sqlite"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "swordfish"
	testCookieName    = "folio_admin_session"
	jsonContentType   = "application/json"
)

type stubTextGenerator struct {
	text string
	err  error
}

func (g stubTextGenerator) GenerateText(contextpkg.Context, string) (string, error) {
	return g.text, g.err
}

type testEnvironment struct {
	server  *httptest.Server
	db      *gorm.DB
	content *content.Service
	blog    *blog.Service
	contact *contact.Service
}

func newTestEnvironment(t *testing.T) *testEnvironment {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
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
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	idProvider := ids.NewUUIDProvider()
	logger := zap.NewNop()

	sessionManager, err := auth.NewSessionManager(auth.SessionManagerConfig{
		SigningSecret: []byte("router-test-secret"),
		CookieName:    testCookieName,
		SessionTTL:    time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to construct session manager: %v", err)
	}

	adminService, err := admins.NewService(admins.ServiceConfig{Database: db, IDProvider: idProvider, Logger: logger})
	if err != nil {
		t.Fatalf("failed to build admin service: %v", err)
	}
	if err := adminService.EnsureAdmin(contextpkg.Background(), testAdminUsername, testAdminPassword); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	contentService, err := content.NewService(content.ServiceConfig{Database: db, IDProvider: idProvider, Logger: logger})
	if err != nil {
		t.Fatalf("failed to build content service: %v", err)
	}
	blogService, err := blog.NewService(blog.ServiceConfig{Database: db, IDProvider: idProvider, Logger: logger})
	if err != nil {
		t.Fatalf("failed to build blog service: %v", err)
	}
	contactService, err := contact.NewService(contact.ServiceConfig{Database: db, IDProvider: idProvider, Logger: logger})
	if err != nil {
		t.Fatalf("failed to build contact service: %v", err)
	}
	assistService := assist.NewService(assist.ServiceConfig{
		Generator: stubTextGenerator{text: "stub answer"},
		Fallback:  "fallback answer",
		Logger:    logger,
	})

	handler, err := NewHTTPHandler(Dependencies{
		Sessions:       sessionManager,
		Admins:         adminService,
		ContentService: contentService,
		BlogService:    blogService,
		ContactService: contactService,
		AssistService:  assistService,
		Cache:          cache.NewTagCache(),
		Logger:         logger,
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	testServer := httptest.NewServer(handler)
	t.Cleanup(testServer.Close)

	return &testEnvironment{
		server:  testServer,
		db:      db,
		content: contentService,
		blog:    blogService,
		contact: contactService,
	}
}

func (env *testEnvironment) login(t *testing.T) *http.Cookie {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": testAdminUsername,
		"password": testAdminPassword,
	})
	response, err := http.Post(env.server.URL+"/api/admin/login", jsonContentType, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status: %d", response.StatusCode)
	}
	for _, cookie := range response.Cookies() {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	t.Fatalf("login response carries no session cookie")
	return nil
}

func (env *testEnvironment) doJSON(t *testing.T, method, path string, cookie *http.Cookie, payload interface{}) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request, err := http.NewRequest(method, env.server.URL+path, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if payload != nil {
		request.Header.Set("Content-Type", jsonContentType)
	}
	if cookie != nil {
		request.AddCookie(cookie)
	}
	response, err := http.DefaultClient.Do(request)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func decodeBody(t *testing.T, response *http.Response, dest interface{}) {
	t.Helper()
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(dest); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
