package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/foliolabs/folio-api/internal/content"
)

func seedProjects(t *testing.T, env *testEnvironment, titles ...string) []content.Project {
	t.Helper()
	projects := make([]content.Project, 0, len(titles))
	for index, title := range titles {
		titleValue := title
		summaryValue := title + " summary"
		orderValue := index
		project, err := env.content.CreateProject(context.Background(), content.ProjectInput{
			Title:        &titleValue,
			Summary:      &summaryValue,
			DisplayOrder: &orderValue,
		})
		if err != nil {
			t.Fatalf("failed to seed project %q: %v", title, err)
		}
		projects = append(projects, project)
	}
	return projects
}

func TestCreateProjectOverHTTP(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)

	response := env.doJSON(t, http.MethodPost, "/api/admin/projects", cookie, map[string]interface{}{
		"title":   "Folio",
		"summary": "portfolio backend",
		"tags":    "go,gin",
	})
	if response.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusCreated)
	}
	var created content.Project
	decodeBody(t, response, &created)
	if created.ID == "" || created.Title != "Folio" || created.Tags != "go,gin" {
		t.Fatalf("unexpected created project: %#v", created)
	}
}

func TestCreateProjectValidationFailure(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)

	response := env.doJSON(t, http.MethodPost, "/api/admin/projects", cookie, map[string]interface{}{
		"title": "No summary",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusBadRequest)
	}
	var payload struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, response, &payload)
	if payload.Error != "validation_failed" {
		t.Fatalf("unexpected error code: %q", payload.Error)
	}
	if payload.Fields["summary"] == "" {
		t.Fatalf("expected summary field, got %v", payload.Fields)
	}
}

func TestCreateEducationValidationFailure(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)

	response := env.doJSON(t, http.MethodPost, "/api/admin/education", cookie, map[string]interface{}{
		"degree": "BSc",
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusBadRequest)
	}
	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, response, &payload)
	if payload.Fields["school"] == "" {
		t.Fatalf("expected school field, got %v", payload.Fields)
	}
}

func TestUpdateProjectUnknownIDReturnsNotFound(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)

	response := env.doJSON(t, http.MethodPut, "/api/admin/projects/missing", cookie, map[string]interface{}{
		"title": "renamed",
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusNotFound)
	}
}

func TestPublicProjectListReflectsAdminMutations(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)
	seedProjects(t, env, "alpha")

	// First public read fills the cache.
	first := env.doJSON(t, http.MethodGet, "/api/projects", nil, nil)
	var listed []content.Project
	decodeBody(t, first, &listed)
	if len(listed) != 1 {
		t.Fatalf("expected one project, got %d", len(listed))
	}

	// An admin create invalidates the cached listing.
	createResponse := env.doJSON(t, http.MethodPost, "/api/admin/projects", cookie, map[string]interface{}{
		"title":         "beta",
		"summary":       "second",
		"display_order": 1,
	})
	createResponse.Body.Close()
	if createResponse.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected create status: %d", createResponse.StatusCode)
	}

	second := env.doJSON(t, http.MethodGet, "/api/projects", nil, nil)
	listed = nil
	decodeBody(t, second, &listed)
	if len(listed) != 2 {
		t.Fatalf("cache not invalidated, got %d projects", len(listed))
	}
	if listed[0].Title != "alpha" || listed[1].Title != "beta" {
		t.Fatalf("unexpected public order: %v, %v", listed[0].Title, listed[1].Title)
	}
}

func TestReorderProjectsOverHTTP(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)
	projects := seedProjects(t, env, "alpha", "beta", "gamma")

	response := env.doJSON(t, http.MethodPost, "/api/admin/projects/reorder", cookie, map[string]interface{}{
		"item_id":      projects[0].ID,
		"target_index": 2,
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", response.StatusCode)
	}

	listing := env.doJSON(t, http.MethodGet, "/api/projects", nil, nil)
	var listed []content.Project
	decodeBody(t, listing, &listed)
	expectedTitles := []string{"beta", "gamma", "alpha"}
	for index, project := range listed {
		if project.Title != expectedTitles[index] {
			t.Fatalf("unexpected order at %d: got %q, want %q", index, project.Title, expectedTitles[index])
		}
	}
}

func TestReorderRequiresItemIDAndTargetIndex(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{name: "missing target index", payload: map[string]interface{}{"item_id": "x"}},
		{name: "missing item id", payload: map[string]interface{}{"target_index": 0}},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			response := env.doJSON(t, http.MethodPost, "/api/admin/projects/reorder", cookie, testCase.payload)
			defer response.Body.Close()
			if response.StatusCode != http.StatusBadRequest {
				t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestReorderOutOfRangeTargetIsValidationFailure(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)
	projects := seedProjects(t, env, "alpha", "beta")

	response := env.doJSON(t, http.MethodPost, "/api/admin/projects/reorder", cookie, map[string]interface{}{
		"item_id":      projects[0].ID,
		"target_index": 9,
	})
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d, want %d", response.StatusCode, http.StatusBadRequest)
	}
	var payload struct {
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, response, &payload)
	if payload.Fields["target_index"] == "" {
		t.Fatalf("expected target_index field, got %v", payload.Fields)
	}
}

func TestReorderSkillsPassesCategoryScope(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)

	categoryResponse := env.doJSON(t, http.MethodPost, "/api/admin/skill-categories", cookie, map[string]interface{}{
		"title": "Backend",
	})
	var category content.SkillCategory
	decodeBody(t, categoryResponse, &category)

	var skills []content.Skill
	for index, name := range []string{"Go", "SQL"} {
		skillResponse := env.doJSON(t, http.MethodPost, "/api/admin/skills", cookie, map[string]interface{}{
			"category_id":   category.ID,
			"name":          name,
			"display_order": index,
		})
		var skill content.Skill
		decodeBody(t, skillResponse, &skill)
		skills = append(skills, skill)
	}

	response := env.doJSON(t, http.MethodPost, "/api/admin/skills/reorder", cookie, map[string]interface{}{
		"item_id":      skills[0].ID,
		"target_index": 1,
		"category_id":  category.ID,
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", response.StatusCode)
	}

	listing := env.doJSON(t, http.MethodGet, "/api/skill-categories", nil, nil)
	var categories []content.SkillCategory
	decodeBody(t, listing, &categories)
	if len(categories) != 1 || len(categories[0].Skills) != 2 {
		t.Fatalf("unexpected listing: %#v", categories)
	}
	if categories[0].Skills[0].Name != "SQL" || categories[0].Skills[1].Name != "Go" {
		t.Fatalf("unexpected nested order: %#v", categories[0].Skills)
	}
}

func TestDeleteProjectOverHTTP(t *testing.T) {
	env := newTestEnvironment(t)
	cookie := env.login(t)
	projects := seedProjects(t, env, "doomed")

	response := env.doJSON(t, http.MethodDelete, "/api/admin/projects/"+projects[0].ID, cookie, nil)
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", response.StatusCode)
	}

	repeat := env.doJSON(t, http.MethodDelete, "/api/admin/projects/"+projects[0].ID, cookie, nil)
	defer repeat.Body.Close()
	if repeat.StatusCode != http.StatusNotFound {
		t.Fatalf("unexpected status on second delete: %d", repeat.StatusCode)
	}
}
