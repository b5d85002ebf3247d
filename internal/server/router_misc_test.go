package server

import (
	"net/http"
	"testing"

	"github.com/foliolabs/folio-api/internal/contact"
)

func TestContactSubmitOverHTTP(t *testing.T) {
	env := newTestEnvironment(t)

	response := env.doJSON(t, http.MethodPost, "/api/contact", nil, map[string]string{
		"name":  "Ada",
		"email": "ada@example.com",
		"body":  "Hello",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusCreated)
	}
	var payload struct {
		ID      string `json:"id"`
		Relayed bool   `json:"relayed"`
	}
	decodeBody(t, response, &payload)
	if payload.ID == "" {
		t.Fatalf("expected stored message id")
	}
	if payload.Relayed {
		t.Fatalf("no relay configured, relayed should be false")
	}

	var count int64
	if err := env.db.Model(&contact.Message{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one stored message, got %d", count)
	}
}

func TestContactSubmitValidationFailure(t *testing.T) {
	env := newTestEnvironment(t)

	response := env.doJSON(t, http.MethodPost, "/api/contact", nil, map[string]string{
		"name":  "Ada",
		"email": "not-an-email",
		"body":  "Hello",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusBadRequest)
	}
	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, response, &payload)
	if payload.Fields["email"] == "" {
		t.Fatalf("expected email field, got %v", payload.Fields)
	}
}

func TestMessageAdminListingAndDelete(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)

	submit := env.doJSON(t, http.MethodPost, "/api/contact", nil, map[string]string{
		"name":  "Ada",
		"email": "ada@example.com",
		"body":  "Hello",
	})
	var submitted struct {
		ID string `json:"id"`
	}
	decodeBody(t, submit, &submitted)

	listing := env.doJSON(t, http.MethodGet, "/api/admin/messages", cookie, nil)
	var messages []contact.Message
	decodeBody(t, listing, &messages)
	if len(messages) != 1 || messages[0].ID != submitted.ID {
		t.Fatalf("unexpected listing: %#v", messages)
	}

	deleteResponse := env.doJSON(t, http.MethodDelete, "/api/admin/messages/"+submitted.ID, cookie, nil)
	deleteResponse.Body.Close()
	if deleteResponse.StatusCode != http.StatusOK {
		t.Fatalf("unexpected delete status: %d", deleteResponse.StatusCode)
	}

	missing := env.doJSON(t, http.MethodDelete, "/api/admin/messages/"+submitted.ID, cookie, nil)
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status on second delete: %d", missing.StatusCode)
	}
}

func TestChatReturnsGeneratedText(t *testing.T) {
	env := newTestEnvironment(t)

	response := env.doJSON(t, http.MethodPost, "/api/chat", nil, map[string]string{
		"prompt": "what does this site run on?",
	})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", response.StatusCode)
	}
	var payload struct {
		Text string `json:"text"`
	}
	decodeBody(t, response, &payload)
	if payload.Text != "stub answer" {
		t.Fatalf("unexpected completion: %q", payload.Text)
	}
}

func TestChatRejectsEmptyPrompt(t *testing.T) {
	env := newTestEnvironment(t)

	response := env.doJSON(t, http.MethodPost, "/api/chat", nil, map[string]string{"prompt": "  "})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusBadRequest)
	}
	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, response, &payload)
	if payload.Fields["prompt"] == "" {
		t.Fatalf("expected prompt field, got %v", payload.Fields)
	}
}

func TestAssistEndpointRequiresSession(t *testing.T) {
	env := newTestEnvironment(t)

	anonymous := env.doJSON(t, http.MethodPost, "/api/admin/assist", nil, map[string]string{"prompt": "draft a bio"})
	anonymous.Body.Close()
	if anonymous.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d, want %d", anonymous.StatusCode, http.StatusUnauthorized)
	}

	cookie := env.login(t)
	response := env.doJSON(t, http.MethodPost, "/api/admin/assist", cookie, map[string]string{"prompt": "draft a bio"})
	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", response.StatusCode)
	}
	var payload struct {
		Text string `json:"text"`
	}
	decodeBody(t, response, &payload)
	if payload.Text != "stub answer" {
		t.Fatalf("unexpected completion: %q", payload.Text)
	}
}
