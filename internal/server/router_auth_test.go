package server

import (
	"net/http"
	"testing"

	"github.com/foliolabs/folio-api/internal/content"
)

func TestAdminRoutesRejectAnonymousRequests(t *testing.T) {
	env := newTestEnvironment(t)

	response := env.doJSON(t, http.MethodPost, "/api/admin/projects", nil, map[string]string{
		"title":   "Sneaky",
		"summary": "should not be written",
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusUnauthorized)
	}

	var count int64
	if err := env.db.Model(&content.Project{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("anonymous request wrote a row, count %d", count)
	}
}

func TestAdminRoutesRejectGarbageCookie(t *testing.T) {
	env := newTestEnvironment(t)

	cookie := &http.Cookie{Name: testCookieName, Value: "not-a-token"}
	response := env.doJSON(t, http.MethodGet, "/api/admin/messages", cookie, nil)
	defer response.Body.Close()
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusUnauthorized)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnvironment(t)

	response := env.doJSON(t, http.MethodPost, "/api/admin/login", nil, map[string]string{
		"username": testAdminUsername,
		"password": "wrong",
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusUnauthorized)
	}
	if len(response.Cookies()) != 0 {
		t.Fatalf("failed login should not set cookies")
	}
}

func TestLoginRejectsMalformedPayload(t *testing.T) {
	env := newTestEnvironment(t)

	response := env.doJSON(t, http.MethodPost, "/api/admin/login", nil, map[string]string{"username": "admin"})
	defer response.Body.Close()
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusBadRequest)
	}
}

func TestLoginSetsHTTPOnlySessionCookie(t *testing.T) {
	env := newTestEnvironment(t)

	cookie := env.login(t)
	if !cookie.HttpOnly {
		t.Fatalf("session cookie must be http-only")
	}
	if cookie.Path != "/" {
		t.Fatalf("unexpected cookie path: %q", cookie.Path)
	}
	if cookie.Value == "" {
		t.Fatalf("empty session token")
	}

	// The cookie opens the admin surface.
	response := env.doJSON(t, http.MethodGet, "/api/admin/projects", cookie, nil)
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status with session cookie: %d", response.StatusCode)
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)

	response := env.doJSON(t, http.MethodPost, "/api/admin/logout", cookie, nil)
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected logout status: %d", response.StatusCode)
	}

	cleared := false
	for _, setCookie := range response.Cookies() {
		if setCookie.Name == testCookieName && setCookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("logout did not expire the session cookie")
	}
}

func TestHealthEndpointIsPublic(t *testing.T) {
	env := newTestEnvironment(t)

	response := env.doJSON(t, http.MethodGet, "/healthz", nil, nil)
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", response.StatusCode)
	}
}
