package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foliolabs/folio-api/internal/apperr"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SkillCategoryInput carries create/update fields for a skill category.
// Nil pointers mean "leave untouched" on update.
type SkillCategoryInput struct {
	Title        *string `json:"title"`
	DisplayOrder *int    `json:"display_order"`
}

// SkillInput carries create/update fields for a skill.
type SkillInput struct {
	CategoryID   *string `json:"category_id"`
	Name         *string `json:"name"`
	Level        *int    `json:"level"`
	DisplayOrder *int    `json:"display_order"`
}

// ProjectInput carries create/update fields for a project.
type ProjectInput struct {
	Title        *string `json:"title"`
	Summary      *string `json:"summary"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"image_url"`
	LiveURL      *string `json:"live_url"`
	RepoURL      *string `json:"repo_url"`
	Tags         *string `json:"tags"`
	Featured     *bool   `json:"featured"`
	DisplayOrder *int    `json:"display_order"`
}

// EducationInput carries create/update fields for an education entry.
type EducationInput struct {
	School       *string `json:"school"`
	Degree       *string `json:"degree"`
	Field        *string `json:"field"`
	StartYear    *int    `json:"start_year"`
	EndYear      *int    `json:"end_year"`
	DisplayOrder *int    `json:"display_order"`
}

// ExperienceInput carries create/update fields for an experience entry.
type ExperienceInput struct {
	Company      *string `json:"company"`
	Role         *string `json:"role"`
	Description  *string `json:"description"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	DisplayOrder *int    `json:"display_order"`
}

// AchievementInput carries create/update fields for an achievement. Only
// the title is required; the description defaults to empty.
type AchievementInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Year         *int    `json:"year"`
	DisplayOrder *int    `json:"display_order"`
}

// ListSkillCategories returns every category in display order with its
// skills nested, each ordered within the category.
func (s *Service) ListSkillCategories(ctx context.Context) ([]SkillCategory, error) {
	const operation = "content.list_skill_categories"
	var categories []SkillCategory
	err := s.db.WithContext(ctx).
		Preload("Skills", func(db *gorm.DB) *gorm.DB {
			return db.Order(displayOrderSort)
		}).
		Order(displayOrderSort).
		Find(&categories).Error
	if err != nil {
		s.logError(operation, "query_failed", err)
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return categories, nil
}

// CreateSkillCategory inserts a new category.
func (s *Service) CreateSkillCategory(ctx context.Context, input SkillCategoryInput) (SkillCategory, error) {
	const operation = "content.create_skill_category"
	fields := map[string]string{}
	title := requiredText(fields, "title", input.Title)
	if len(fields) > 0 {
		return SkillCategory{}, apperr.NewValidationError(fields)
	}

	id, err := s.newID(operation)
	if err != nil {
		return SkillCategory{}, err
	}
	record := SkillCategory{
		ID:           id,
		Title:        title,
		DisplayOrder: optionalInt(input.DisplayOrder),
	}
	if err := s.insert(ctx, operation, &record); err != nil {
		return SkillCategory{}, err
	}
	return record, nil
}

// GetSkillCategory returns one category by id.
func (s *Service) GetSkillCategory(ctx context.Context, id string) (SkillCategory, error) {
	var record SkillCategory
	if err := s.getByID(ctx, "content.get_skill_category", &record, id); err != nil {
		return SkillCategory{}, err
	}
	return record, nil
}

// UpdateSkillCategory applies the provided fields to an existing category.
func (s *Service) UpdateSkillCategory(ctx context.Context, id string, input SkillCategoryInput) (SkillCategory, error) {
	const operation = "content.update_skill_category"
	var record SkillCategory
	if err := s.getByID(ctx, operation, &record, id); err != nil {
		return SkillCategory{}, err
	}

	fields := map[string]string{}
	updates := map[string]interface{}{}
	setRequiredText(updates, fields, "title", input.Title)
	setInt(updates, "display_order", input.DisplayOrder)
	if len(fields) > 0 {
		return SkillCategory{}, apperr.NewValidationError(fields)
	}
	if err := s.applyUpdates(ctx, operation, &record, updates); err != nil {
		return SkillCategory{}, err
	}
	return record, nil
}

// DeleteSkillCategory removes a category and every skill inside it in one
// transaction. Skills under other categories are untouched.
func (s *Service) DeleteSkillCategory(ctx context.Context, id string) error {
	const operation = "content.delete_skill_category"
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category SkillCategory
		err := tx.Where("id = ?", id).Take(&category).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
		}
		if err != nil {
			s.logError(operation, "select_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".select_failed", err)
		}
		if err := tx.Where("category_id = ?", id).Delete(&Skill{}).Error; err != nil {
			s.logError(operation, "skill_cascade_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".skill_cascade_failed", err)
		}
		if err := tx.Where("id = ?", id).Delete(&SkillCategory{}).Error; err != nil {
			s.logError(operation, "delete_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".delete_failed", err)
		}
		return nil
	})
}

// ListSkills returns the skills for one category in display order.
func (s *Service) ListSkills(ctx context.Context, categoryID string) ([]Skill, error) {
	const operation = "content.list_skills"
	var skills []Skill
	query := s.db.WithContext(ctx).Order(displayOrderSort)
	if strings.TrimSpace(categoryID) != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if err := query.Find(&skills).Error; err != nil {
		s.logError(operation, "query_failed", err, zap.String("category_id", categoryID))
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return skills, nil
}

// CreateSkill inserts a new skill under an existing category.
func (s *Service) CreateSkill(ctx context.Context, input SkillInput) (Skill, error) {
	const operation = "content.create_skill"
	fields := map[string]string{}
	categoryID := requiredText(fields, "category_id", input.CategoryID)
	name := requiredText(fields, "name", input.Name)
	if categoryID != "" {
		if err := s.ensureCategoryExists(ctx, operation, categoryID, fields); err != nil {
			return Skill{}, err
		}
	}
	if len(fields) > 0 {
		return Skill{}, apperr.NewValidationError(fields)
	}

	id, err := s.newID(operation)
	if err != nil {
		return Skill{}, err
	}
	record := Skill{
		ID:           id,
		CategoryID:   categoryID,
		Name:         name,
		Level:        optionalInt(input.Level),
		DisplayOrder: optionalInt(input.DisplayOrder),
	}
	if err := s.insert(ctx, operation, &record); err != nil {
		return Skill{}, err
	}
	return record, nil
}

// UpdateSkill applies the provided fields to an existing skill.
func (s *Service) UpdateSkill(ctx context.Context, id string, input SkillInput) (Skill, error) {
	const operation = "content.update_skill"
	var record Skill
	if err := s.getByID(ctx, operation, &record, id); err != nil {
		return Skill{}, err
	}

	fields := map[string]string{}
	updates := map[string]interface{}{}
	setRequiredText(updates, fields, "name", input.Name)
	setRequiredText(updates, fields, "category_id", input.CategoryID)
	setInt(updates, "level", input.Level)
	setInt(updates, "display_order", input.DisplayOrder)
	if newCategory, ok := updates["category_id"].(string); ok {
		if err := s.ensureCategoryExists(ctx, operation, newCategory, fields); err != nil {
			return Skill{}, err
		}
	}
	if len(fields) > 0 {
		return Skill{}, apperr.NewValidationError(fields)
	}
	if err := s.applyUpdates(ctx, operation, &record, updates); err != nil {
		return Skill{}, err
	}
	return record, nil
}

// DeleteSkill removes one skill.
func (s *Service) DeleteSkill(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "content.delete_skill", &Skill{}, id)
}

// ListProjects returns every project in display order.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	const operation = "content.list_projects"
	var projects []Project
	if err := s.db.WithContext(ctx).Order(displayOrderSort).Find(&projects).Error; err != nil {
		s.logError(operation, "query_failed", err)
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return projects, nil
}

// CreateProject inserts a new project.
func (s *Service) CreateProject(ctx context.Context, input ProjectInput) (Project, error) {
	const operation = "content.create_project"
	fields := map[string]string{}
	title := requiredText(fields, "title", input.Title)
	summary := requiredText(fields, "summary", input.Summary)
	if len(fields) > 0 {
		return Project{}, apperr.NewValidationError(fields)
	}

	id, err := s.newID(operation)
	if err != nil {
		return Project{}, err
	}
	record := Project{
		ID:           id,
		Title:        title,
		Summary:      summary,
		Description:  optionalText(input.Description),
		ImageURL:     optionalText(input.ImageURL),
		LiveURL:      optionalText(input.LiveURL),
		RepoURL:      optionalText(input.RepoURL),
		Tags:         optionalText(input.Tags),
		Featured:     optionalBool(input.Featured),
		DisplayOrder: optionalInt(input.DisplayOrder),
	}
	if err := s.insert(ctx, operation, &record); err != nil {
		return Project{}, err
	}
	return record, nil
}

// GetProject returns one project by id.
func (s *Service) GetProject(ctx context.Context, id string) (Project, error) {
	var record Project
	if err := s.getByID(ctx, "content.get_project", &record, id); err != nil {
		return Project{}, err
	}
	return record, nil
}

// UpdateProject applies the provided fields to an existing project.
func (s *Service) UpdateProject(ctx context.Context, id string, input ProjectInput) (Project, error) {
	const operation = "content.update_project"
	var record Project
	if err := s.getByID(ctx, operation, &record, id); err != nil {
		return Project{}, err
	}

	fields := map[string]string{}
	updates := map[string]interface{}{}
	setRequiredText(updates, fields, "title", input.Title)
	setRequiredText(updates, fields, "summary", input.Summary)
	setText(updates, "description", input.Description)
	setText(updates, "image_url", input.ImageURL)
	setText(updates, "live_url", input.LiveURL)
	setText(updates, "repo_url", input.RepoURL)
	setText(updates, "tags", input.Tags)
	setBool(updates, "featured", input.Featured)
	setInt(updates, "display_order", input.DisplayOrder)
	if len(fields) > 0 {
		return Project{}, apperr.NewValidationError(fields)
	}
	if err := s.applyUpdates(ctx, operation, &record, updates); err != nil {
		return Project{}, err
	}
	return record, nil
}

// DeleteProject removes one project.
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "content.delete_project", &Project{}, id)
}

// ListEducation returns every education entry in display order.
func (s *Service) ListEducation(ctx context.Context) ([]Education, error) {
	const operation = "content.list_education"
	var entries []Education
	if err := s.db.WithContext(ctx).Order(displayOrderSort).Find(&entries).Error; err != nil {
		s.logError(operation, "query_failed", err)
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return entries, nil
}

// CreateEducation inserts a new education entry.
func (s *Service) CreateEducation(ctx context.Context, input EducationInput) (Education, error) {
	const operation = "content.create_education"
	fields := map[string]string{}
	school := requiredText(fields, "school", input.School)
	degree := requiredText(fields, "degree", input.Degree)
	if len(fields) > 0 {
		return Education{}, apperr.NewValidationError(fields)
	}

	id, err := s.newID(operation)
	if err != nil {
		return Education{}, err
	}
	record := Education{
		ID:           id,
		School:       school,
		Degree:       degree,
		Field:        optionalText(input.Field),
		StartYear:    optionalInt(input.StartYear),
		EndYear:      optionalInt(input.EndYear),
		DisplayOrder: optionalInt(input.DisplayOrder),
	}
	if err := s.insert(ctx, operation, &record); err != nil {
		return Education{}, err
	}
	return record, nil
}

// UpdateEducation applies the provided fields to an existing entry.
func (s *Service) UpdateEducation(ctx context.Context, id string, input EducationInput) (Education, error) {
	const operation = "content.update_education"
	var record Education
	if err := s.getByID(ctx, operation, &record, id); err != nil {
		return Education{}, err
	}

	fields := map[string]string{}
	updates := map[string]interface{}{}
	setRequiredText(updates, fields, "school", input.School)
	setRequiredText(updates, fields, "degree", input.Degree)
	setText(updates, "field", input.Field)
	setInt(updates, "start_year", input.StartYear)
	setInt(updates, "end_year", input.EndYear)
	setInt(updates, "display_order", input.DisplayOrder)
	if len(fields) > 0 {
		return Education{}, apperr.NewValidationError(fields)
	}
	if err := s.applyUpdates(ctx, operation, &record, updates); err != nil {
		return Education{}, err
	}
	return record, nil
}

// DeleteEducation removes one education entry.
func (s *Service) DeleteEducation(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "content.delete_education", &Education{}, id)
}

// ListExperience returns every experience entry in display order.
func (s *Service) ListExperience(ctx context.Context) ([]Experience, error) {
	const operation = "content.list_experience"
	var entries []Experience
	if err := s.db.WithContext(ctx).Order(displayOrderSort).Find(&entries).Error; err != nil {
		s.logError(operation, "query_failed", err)
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return entries, nil
}

// CreateExperience inserts a new experience entry.
func (s *Service) CreateExperience(ctx context.Context, input ExperienceInput) (Experience, error) {
	const operation = "content.create_experience"
	fields := map[string]string{}
	company := requiredText(fields, "company", input.Company)
	role := requiredText(fields, "role", input.Role)
	if len(fields) > 0 {
		return Experience{}, apperr.NewValidationError(fields)
	}

	id, err := s.newID(operation)
	if err != nil {
		return Experience{}, err
	}
	record := Experience{
		ID:           id,
		Company:      company,
		Role:         role,
		Description:  optionalText(input.Description),
		StartDate:    optionalText(input.StartDate),
		EndDate:      optionalText(input.EndDate),
		DisplayOrder: optionalInt(input.DisplayOrder),
	}
	if err := s.insert(ctx, operation, &record); err != nil {
		return Experience{}, err
	}
	return record, nil
}

// UpdateExperience applies the provided fields to an existing entry.
func (s *Service) UpdateExperience(ctx context.Context, id string, input ExperienceInput) (Experience, error) {
	const operation = "content.update_experience"
	var record Experience
	if err := s.getByID(ctx, operation, &record, id); err != nil {
		return Experience{}, err
	}

	fields := map[string]string{}
	updates := map[string]interface{}{}
	setRequiredText(updates, fields, "company", input.Company)
	setRequiredText(updates, fields, "role", input.Role)
	setText(updates, "description", input.Description)
	setText(updates, "start_date", input.StartDate)
	setText(updates, "end_date", input.EndDate)
	setInt(updates, "display_order", input.DisplayOrder)
	if len(fields) > 0 {
		return Experience{}, apperr.NewValidationError(fields)
	}
	if err := s.applyUpdates(ctx, operation, &record, updates); err != nil {
		return Experience{}, err
	}
	return record, nil
}

// DeleteExperience removes one experience entry.
func (s *Service) DeleteExperience(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "content.delete_experience", &Experience{}, id)
}

// ListAchievements returns every achievement in display order.
func (s *Service) ListAchievements(ctx context.Context) ([]Achievement, error) {
	const operation = "content.list_achievements"
	var achievements []Achievement
	if err := s.db.WithContext(ctx).Order(displayOrderSort).Find(&achievements).Error; err != nil {
		s.logError(operation, "query_failed", err)
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return achievements, nil
}

// CreateAchievement inserts a new achievement. The title is the only
// required field.
func (s *Service) CreateAchievement(ctx context.Context, input AchievementInput) (Achievement, error) {
	const operation = "content.create_achievement"
	fields := map[string]string{}
	title := requiredText(fields, "title", input.Title)
	if len(fields) > 0 {
		return Achievement{}, apperr.NewValidationError(fields)
	}

	id, err := s.newID(operation)
	if err != nil {
		return Achievement{}, err
	}
	record := Achievement{
		ID:           id,
		Title:        title,
		Description:  optionalText(input.Description),
		Year:         optionalInt(input.Year),
		DisplayOrder: optionalInt(input.DisplayOrder),
	}
	if err := s.insert(ctx, operation, &record); err != nil {
		return Achievement{}, err
	}
	return record, nil
}

// UpdateAchievement applies the provided fields to an existing achievement.
func (s *Service) UpdateAchievement(ctx context.Context, id string, input AchievementInput) (Achievement, error) {
	const operation = "content.update_achievement"
	var record Achievement
	if err := s.getByID(ctx, operation, &record, id); err != nil {
		return Achievement{}, err
	}

	fields := map[string]string{}
	updates := map[string]interface{}{}
	setRequiredText(updates, fields, "title", input.Title)
	setText(updates, "description", input.Description)
	setInt(updates, "year", input.Year)
	setInt(updates, "display_order", input.DisplayOrder)
	if len(fields) > 0 {
		return Achievement{}, apperr.NewValidationError(fields)
	}
	if err := s.applyUpdates(ctx, operation, &record, updates); err != nil {
		return Achievement{}, err
	}
	return record, nil
}

// DeleteAchievement removes one achievement.
func (s *Service) DeleteAchievement(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "content.delete_achievement", &Achievement{}, id)
}

func (s *Service) ensureCategoryExists(ctx context.Context, operation, categoryID string, fields map[string]string) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&SkillCategory{}).Where("id = ?", categoryID).Count(&count).Error
	if err != nil {
		s.logError(operation, "category_lookup_failed", err, zap.String("category_id", categoryID))
		return apperr.NewUpstreamError(operation+".category_lookup_failed", err)
	}
	if count == 0 {
		fields["category_id"] = "unknown category"
	}
	return nil
}

// applyUpdates writes the staged column values and refreshes record with
// the stored row.
func (s *Service) applyUpdates(ctx context.Context, operation string, record interface{}, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(record).Updates(updates).Error; err != nil {
		s.logError(operation, "update_failed", err)
		return apperr.NewUpstreamError(operation+".update_failed", err)
	}
	if err := s.db.WithContext(ctx).Take(record).Error; err != nil {
		s.logError(operation, "reload_failed", err)
		return apperr.NewUpstreamError(operation+".reload_failed", err)
	}
	return nil
}
