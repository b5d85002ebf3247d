package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foliolabs/folio-api/internal/apperr"
	"github.com/foliolabs/folio-api/internal/ids"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// ServiceConfig describes the dependencies for the blog service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ids.Provider
	Logger     *zap.Logger
}

// Service owns blog posts, tags and categories.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider ids.Provider
	logger     *zap.Logger
}

// NewService validates the configuration and constructs the service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("blog: %w", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, fmt.Errorf("blog: %w", errMissingIDProvider)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{
		db:         cfg.Database,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// PostInput carries create/update fields for a post. Nil pointers mean
// "leave untouched" on update.
type PostInput struct {
	Title         *string   `json:"title"`
	Slug          *string   `json:"slug"`
	Excerpt       *string   `json:"excerpt"`
	Body          *string   `json:"body"`
	CoverImageURL *string   `json:"cover_image_url"`
	CategoryID    *string   `json:"category_id"`
	Published     *bool     `json:"published"`
	TagIDs        *[]string `json:"tag_ids"`
}

// Page is one slice of the published listing, echoing the requested
// page and limit back to the caller.
type Page struct {
	Posts []Post `json:"posts"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Total int64  `json:"total"`
}

// ListPublished returns one page of published posts, newest first. Page
// numbers start at 1; zero or negative inputs fall back to the defaults.
func (s *Service) ListPublished(ctx context.Context, page, limit int) (Page, error) {
	const operation = "blog.list_published"
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&Post{}).Where("published = ?", true).Count(&total).Error; err != nil {
		s.logError(operation, "count_failed", err)
		return Page{}, apperr.NewUpstreamError(operation+".count_failed", err)
	}

	var posts []Post
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("published = ?", true).
		Order("published_at_s DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		s.logError(operation, "query_failed", err)
		return Page{}, apperr.NewUpstreamError(operation+".query_failed", err)
	}

	return Page{Posts: posts, Page: page, Limit: limit, Total: total}, nil
}

// GetPublishedBySlug returns one published post by slug.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	const operation = "blog.get_by_slug"
	var post Post
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("slug = ? AND published = ?", strings.TrimSpace(slug), true).
		Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Post{}, fmt.Errorf("%w: %s", apperr.ErrNotFound, slug)
	}
	if err != nil {
		s.logError(operation, "select_failed", err, zap.String("slug", slug))
		return Post{}, apperr.NewUpstreamError(operation+".select_failed", err)
	}
	return post, nil
}

// ListAll returns every post for the admin listing, newest first,
// including unpublished drafts.
func (s *Service) ListAll(ctx context.Context) ([]Post, error) {
	const operation = "blog.list_all"
	var posts []Post
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		s.logError(operation, "query_failed", err)
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return posts, nil
}

// CreatePost inserts a new post. Title, slug and body are required and the
// slug must be unique. Publishing stamps the publication time when the
// caller did not supply one.
func (s *Service) CreatePost(ctx context.Context, input PostInput) (Post, error) {
	const operation = "blog.create_post"
	fields := map[string]string{}
	title := requiredText(fields, "title", input.Title)
	slug := requiredText(fields, "slug", input.Slug)
	body := requiredText(fields, "body", input.Body)
	if slug != "" {
		taken, err := s.slugTaken(ctx, operation, slug, "")
		if err != nil {
			return Post{}, err
		}
		if taken {
			fields["slug"] = "already in use"
		}
	}
	if len(fields) > 0 {
		return Post{}, apperr.NewValidationError(fields)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(operation, "id_generation_failed", err)
		return Post{}, apperr.NewUpstreamError(operation+".id_generation_failed", err)
	}

	post := Post{
		ID:            id,
		Title:         title,
		Slug:          slug,
		Excerpt:       optionalText(input.Excerpt),
		Body:          body,
		CoverImageURL: optionalText(input.CoverImageURL),
		CategoryID:    optionalText(input.CategoryID),
		Published:     input.Published != nil && *input.Published,
	}
	if post.Published {
		post.PublishedAtSeconds = s.clock().UTC().Unix()
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(&post).Error; err != nil {
			s.logError(operation, "insert_failed", err)
			return apperr.NewUpstreamError(operation+".insert_failed", err)
		}
		if input.TagIDs != nil {
			if err := s.replaceTags(tx, operation, &post, *input.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return Post{}, txErr
	}
	return s.getPost(ctx, operation, post.ID)
}

// UpdatePost applies the provided fields to an existing post. Flipping
// Published to true stamps the publication time once.
func (s *Service) UpdatePost(ctx context.Context, id string, input PostInput) (Post, error) {
	const operation = "blog.update_post"
	post, err := s.getPost(ctx, operation, id)
	if err != nil {
		return Post{}, err
	}

	fields := map[string]string{}
	updates := map[string]interface{}{}
	setRequiredText(updates, fields, "title", input.Title)
	setRequiredText(updates, fields, "slug", input.Slug)
	setRequiredText(updates, fields, "body", input.Body)
	setText(updates, "excerpt", input.Excerpt)
	setText(updates, "cover_image_url", input.CoverImageURL)
	setText(updates, "category_id", input.CategoryID)
	if newSlug, ok := updates["slug"].(string); ok && newSlug != post.Slug {
		taken, err := s.slugTaken(ctx, operation, newSlug, id)
		if err != nil {
			return Post{}, err
		}
		if taken {
			fields["slug"] = "already in use"
		}
	}
	if input.Published != nil {
		updates["published"] = *input.Published
		if *input.Published && post.PublishedAtSeconds == 0 {
			updates["published_at_s"] = s.clock().UTC().Unix()
		}
	}
	if len(fields) > 0 {
		return Post{}, apperr.NewValidationError(fields)
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				s.logError(operation, "update_failed", err, zap.String("id", id))
				return apperr.NewUpstreamError(operation+".update_failed", err)
			}
		}
		if input.TagIDs != nil {
			if err := s.replaceTags(tx, operation, &post, *input.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return Post{}, txErr
	}
	return s.getPost(ctx, operation, id)
}

// DeletePost removes a post and its tag links.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	const operation = "blog.delete_post"
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post Post
		err := tx.Where("id = ?", id).Take(&post).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
		}
		if err != nil {
			s.logError(operation, "select_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".select_failed", err)
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			s.logError(operation, "tag_unlink_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".tag_unlink_failed", err)
		}
		if err := tx.Where("id = ?", id).Delete(&Post{}).Error; err != nil {
			s.logError(operation, "delete_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".delete_failed", err)
		}
		return nil
	})
}

// ListTags returns every tag sorted by name.
func (s *Service) ListTags(ctx context.Context) ([]Tag, error) {
	const operation = "blog.list_tags"
	var tags []Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		s.logError(operation, "query_failed", err)
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return tags, nil
}

// CreateTag inserts a tag with a unique name.
func (s *Service) CreateTag(ctx context.Context, name string) (Tag, error) {
	const operation = "blog.create_tag"
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Tag{}, apperr.NewValidationError(map[string]string{"name": "is required"})
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&Tag{}).Where("name = ?", trimmed).Count(&count).Error; err != nil {
		s.logError(operation, "lookup_failed", err)
		return Tag{}, apperr.NewUpstreamError(operation+".lookup_failed", err)
	}
	if count > 0 {
		return Tag{}, apperr.NewValidationError(map[string]string{"name": "already in use"})
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(operation, "id_generation_failed", err)
		return Tag{}, apperr.NewUpstreamError(operation+".id_generation_failed", err)
	}
	tag := Tag{ID: id, Name: trimmed}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		s.logError(operation, "insert_failed", err)
		return Tag{}, apperr.NewUpstreamError(operation+".insert_failed", err)
	}
	return tag, nil
}

// DeleteTag removes a tag and its post links.
func (s *Service) DeleteTag(ctx context.Context, id string) error {
	const operation = "blog.delete_tag"
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag Tag
		err := tx.Where("id = ?", id).Take(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
		}
		if err != nil {
			s.logError(operation, "select_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".select_failed", err)
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE tag_id = ?", id).Error; err != nil {
			s.logError(operation, "unlink_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".unlink_failed", err)
		}
		if err := tx.Where("id = ?", id).Delete(&Tag{}).Error; err != nil {
			s.logError(operation, "delete_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".delete_failed", err)
		}
		return nil
	})
}

// ListCategories returns every blog category sorted by name.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	const operation = "blog.list_categories"
	var categories []Category
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		s.logError(operation, "query_failed", err)
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return categories, nil
}

// CreateCategory inserts a category with a unique name.
func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	const operation = "blog.create_category"
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Category{}, apperr.NewValidationError(map[string]string{"name": "is required"})
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&Category{}).Where("name = ?", trimmed).Count(&count).Error; err != nil {
		s.logError(operation, "lookup_failed", err)
		return Category{}, apperr.NewUpstreamError(operation+".lookup_failed", err)
	}
	if count > 0 {
		return Category{}, apperr.NewValidationError(map[string]string{"name": "already in use"})
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(operation, "id_generation_failed", err)
		return Category{}, apperr.NewUpstreamError(operation+".id_generation_failed", err)
	}
	category := Category{ID: id, Name: trimmed}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		s.logError(operation, "insert_failed", err)
		return Category{}, apperr.NewUpstreamError(operation+".insert_failed", err)
	}
	return category, nil
}

// DeleteCategory removes a category; posts keep running with an empty
// category reference.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	const operation = "blog.delete_category"
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&Category{})
		if result.Error != nil {
			s.logError(operation, "delete_failed", result.Error, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".delete_failed", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
		}
		if err := tx.Model(&Post{}).Where("category_id = ?", id).Update("category_id", "").Error; err != nil {
			s.logError(operation, "post_detach_failed", err, zap.String("id", id))
			return apperr.NewUpstreamError(operation+".post_detach_failed", err)
		}
		return nil
	})
}

func (s *Service) getPost(ctx context.Context, operation, id string) (Post, error) {
	var post Post
	err := s.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Post{}, fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		s.logError(operation, "select_failed", err, zap.String("id", id))
		return Post{}, apperr.NewUpstreamError(operation+".select_failed", err)
	}
	return post, nil
}

func (s *Service) slugTaken(ctx context.Context, operation, slug, excludeID string) (bool, error) {
	query := s.db.WithContext(ctx).Model(&Post{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		s.logError(operation, "slug_lookup_failed", err, zap.String("slug", slug))
		return false, apperr.NewUpstreamError(operation+".slug_lookup_failed", err)
	}
	return count > 0, nil
}

func (s *Service) replaceTags(tx *gorm.DB, operation string, post *Post, tagIDs []string) error {
	var tags []Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			s.logError(operation, "tag_lookup_failed", err)
			return apperr.NewUpstreamError(operation+".tag_lookup_failed", err)
		}
		if len(tags) != len(tagIDs) {
			return apperr.NewValidationError(map[string]string{"tag_ids": "unknown tag"})
		}
	}
	if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
		s.logError(operation, "tag_replace_failed", err, zap.String("id", post.ID))
		return apperr.NewUpstreamError(operation+".tag_replace_failed", err)
	}
	return nil
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("blog service error", attrs...)
}

func requiredText(fields map[string]string, name string, value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		fields[name] = "is required"
		return ""
	}
	return strings.TrimSpace(*value)
}

func optionalText(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func setText(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = strings.TrimSpace(*value)
	}
}

func setRequiredText(updates map[string]interface{}, fields map[string]string, column string, value *string) {
	if value == nil {
		return
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		fields[column] = "cannot be empty"
		return
	}
	updates[column] = trimmed
}
