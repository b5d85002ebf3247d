// Package contact stores contact-form submissions and relays them to the
// configured messaging bot. The stored row is the source of truth; the
// relay is best-effort.
package contact

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

// Message is a persisted contact-form submission.
type Message struct {
	ID               string `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Name             string `gorm:"column:name;size:190;not null" json:"name"`
	Email            string `gorm:"column:email;size:320;not null" json:"email"`
	Body             string `gorm:"column:body;type:text;not null" json:"body"`
	Relayed          bool   `gorm:"column:relayed;not null;default:false" json:"relayed"`
	CreatedAtSeconds int64  `gorm:"column:created_at_s;not null" json:"created_at_s"`
}

// TableName provides the explicit table binding for GORM.
func (Message) TableName() string {
	return "contact_messages"
}

// Relay delivers a text notification to the messaging service.
type Relay interface {
	Notify(ctx context.Context, text string) error
}

// SubmissionInput carries the public contact-form fields.
type SubmissionInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Body  string `json:"body"`
}

// ServiceConfig describes the dependencies for the contact service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider ids.Provider
	Relay      Relay
	Logger     *zap.Logger
}

// Service persists and relays contact messages.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider ids.Provider
	relay      Relay
	logger     *zap.Logger
}

// NewService validates the configuration and constructs the service. The
// relay is optional; without one, submissions are stored only.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("contact: %w", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, fmt.Errorf("contact: %w", errMissingIDProvider)
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
		relay:      cfg.Relay,
		logger:     logger,
	}, nil
}

// Submit validates and stores a submission, then relays it. A relay
// failure keeps the stored row and is reported through the Relayed flag,
// never as an error to the submitter.
func (s *Service) Submit(ctx context.Context, input SubmissionInput) (Message, error) {
	const operation = "contact.submit"

	fields := map[string]string{}
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	body := strings.TrimSpace(input.Body)
	if name == "" {
		fields["name"] = "is required"
	}
	if email == "" {
		fields["email"] = "is required"
	} else if !strings.Contains(email, "@") {
		fields["email"] = "must be an email address"
	}
	if body == "" {
		fields["body"] = "is required"
	}
	if len(fields) > 0 {
		return Message{}, apperr.NewValidationError(fields)
	}

	id, err := s.idProvider.NewID()
	if err != nil {
		s.logError(operation, "id_generation_failed", err)
		return Message{}, apperr.NewUpstreamError(operation+".id_generation_failed", err)
	}

	message := Message{
		ID:               id,
		Name:             name,
		Email:            email,
		Body:             body,
		CreatedAtSeconds: s.clock().UTC().Unix(),
	}
	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		s.logError(operation, "insert_failed", err)
		return Message{}, apperr.NewUpstreamError(operation+".insert_failed", err)
	}

	if s.relay != nil {
		text := fmt.Sprintf("New contact message from %s <%s>:\n%s", name, email, body)
		if err := s.relay.Notify(ctx, text); err != nil {
			s.logError(operation, "relay_failed", err, zap.String("message_id", id))
		} else {
			message.Relayed = true
			if err := s.db.WithContext(ctx).Model(&Message{}).Where("id = ?", id).Update("relayed", true).Error; err != nil {
				s.logError(operation, "relay_flag_update_failed", err, zap.String("message_id", id))
			}
		}
	}

	return message, nil
}

// List returns every stored message, newest first, for the admin panel.
func (s *Service) List(ctx context.Context) ([]Message, error) {
	const operation = "contact.list"
	var messages []Message
	if err := s.db.WithContext(ctx).Order("created_at_s DESC, id DESC").Find(&messages).Error; err != nil {
		s.logError(operation, "query_failed", err)
		return nil, apperr.NewUpstreamError(operation+".query_failed", err)
	}
	return messages, nil
}

// Delete removes one stored message.
func (s *Service) Delete(ctx context.Context, id string) error {
	const operation = "contact.delete"
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&Message{})
	if result.Error != nil {
		s.logError(operation, "delete_failed", result.Error, zap.String("id", id))
		return apperr.NewUpstreamError(operation+".delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, id)
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
	s.logger.Error("contact service error", attrs...)
}
