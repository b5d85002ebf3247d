package content

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

var (
	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// displayOrderSort keeps list output stable: ties on display_order fall
// back to id, which is creation-ordered for UUIDv7 identifiers.
const displayOrderSort = "display_order ASC, id ASC"

// ServiceConfig describes the dependencies for the content service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ids.Provider
	Logger     *zap.Logger
}

// Service owns CRUD and reorder operations over every portfolio section.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider ids.Provider
	logger     *zap.Logger
}

// NewService validates the configuration and constructs the service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("content: %w", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, fmt.Errorf("content: %w", errMissingIDProvider)
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

// ScopeKind names a reorderable collection.
type ScopeKind string

const (
	ScopeProjects        ScopeKind = "projects"
	ScopeSkillCategories ScopeKind = "skill_categories"
	ScopeSkills          ScopeKind = "skills"
	ScopeEducation       ScopeKind = "education"
	ScopeExperience      ScopeKind = "experience"
	ScopeAchievements    ScopeKind = "achievements"
)

// ReorderScope identifies the collection a reorder applies to. Skills are
// scoped to their parent category; every other kind spans the full table.
type ReorderScope struct {
	Kind       ScopeKind
	CategoryID string
}

func (scope ReorderScope) model() (interface{}, error) {
	switch scope.Kind {
	case ScopeProjects:
		return &Project{}, nil
	case ScopeSkillCategories:
		return &SkillCategory{}, nil
	case ScopeSkills:
		return &Skill{}, nil
	case ScopeEducation:
		return &Education{}, nil
	case ScopeExperience:
		return &Experience{}, nil
	case ScopeAchievements:
		return &Achievement{}, nil
	default:
		return nil, fmt.Errorf("content: unknown reorder scope %q", scope.Kind)
	}
}

// Reorder moves itemID to targetIndex within its scoped collection and
// persists the new zero-based positions for every item whose position
// changed, in ascending index order. The writes share one transaction so a
// failure leaves the stored ordering untouched.
func (s *Service) Reorder(ctx context.Context, scope ReorderScope, itemID string, targetIndex int) error {
	const operation = "content.reorder"

	model, err := scope.model()
	if err != nil {
		return apperr.NewValidationError(map[string]string{"scope": "unknown collection"})
	}
	if scope.Kind == ScopeSkills && strings.TrimSpace(scope.CategoryID) == "" {
		return apperr.NewValidationError(map[string]string{"category_id": "is required"})
	}
	if strings.TrimSpace(itemID) == "" {
		return apperr.NewValidationError(map[string]string{"item_id": "is required"})
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var itemIDs []string
		query := tx.Model(model).Order(displayOrderSort)
		if scope.Kind == ScopeSkills {
			query = query.Where("category_id = ?", scope.CategoryID)
		}
		if err := query.Pluck("id", &itemIDs).Error; err != nil {
			s.logError(operation, "collection_load_failed", err, zap.String("scope", string(scope.Kind)))
			return apperr.NewUpstreamError(operation+".collection_load_failed", err)
		}

		reordered, err := MoveItemByID(itemIDs, itemID, targetIndex)
		if errors.Is(err, ErrItemNotInCollection) {
			return fmt.Errorf("%w: %s", apperr.ErrNotFound, itemID)
		}
		if errors.Is(err, ErrIndexOutOfRange) {
			return apperr.NewValidationError(map[string]string{"target_index": "out of range"})
		}
		if err != nil {
			return apperr.NewUpstreamError(operation+".move_failed", err)
		}

		for _, change := range changedPositions(itemIDs, reordered) {
			result := tx.Model(model).
				Where("id = ?", change.ItemID).
				Update("display_order", change.Position)
			if result.Error != nil {
				s.logError(operation, "position_write_failed", result.Error,
					zap.String("scope", string(scope.Kind)),
					zap.String("item_id", change.ItemID))
				return apperr.NewUpstreamError(operation+".position_write_failed", result.Error)
			}
		}
		return nil
	})

	return txErr
}

func (s *Service) getByID(ctx context.Context, operation string, dest interface{}, id string) error {
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		s.logError(operation, "select_failed", err, zap.String("id", id))
		return apperr.NewUpstreamError(operation+".select_failed", err)
	}
	return nil
}

func (s *Service) deleteByID(ctx context.Context, operation string, model interface{}, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if result.Error != nil {
		s.logError(operation, "delete_failed", result.Error, zap.String("id", id))
		return apperr.NewUpstreamError(operation+".delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
	}
	return nil
}

func (s *Service) insert(ctx context.Context, operation string, record interface{}) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		s.logError(operation, "insert_failed", err)
		return apperr.NewUpstreamError(operation+".insert_failed", err)
	}
	return nil
}

func (s *Service) newID(operation string) (string, error) {
	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(operation, "id_generation_failed", err)
		return "", apperr.NewUpstreamError(operation+".id_generation_failed", err)
	}
	return id, nil
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
	s.logger.Error("content service error", attrs...)
}

// requiredText records a validation failure for missing or blank values and
// returns the trimmed value otherwise.
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

func optionalInt(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func optionalBool(value *bool) bool {
	if value == nil {
		return false
	}
	return *value
}

// setText stages a partial update for an optional text column.
func setText(updates map[string]interface{}, column string, value *string) {
	if value != nil {
		updates[column] = strings.TrimSpace(*value)
	}
}

// setRequiredText stages a partial update and rejects blanking a required
// column.
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

func setInt(updates map[string]interface{}, column string, value *int) {
	if value != nil {
		updates[column] = *value
	}
}

func setBool(updates map[string]interface{}, column string, value *bool) {
	if value != nil {
		updates[column] = *value
	}
}
