package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taxportal-backend/internal/db"
	"taxportal-backend/internal/models"
)

// contactService implements the ContactService interface.
type contactService struct {
	contactRepo db.ContactRepository
	notifier    ContactNotifier // optional; nil disables notification mail
	logger      *zap.Logger
}

// NewContactService creates a new ContactService instance. notifier may be nil.
func NewContactService(contactRepo db.ContactRepository, notifier ContactNotifier, logger *zap.Logger) ContactService {
	return &contactService{
		contactRepo: contactRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Submit stores an anonymous contact submission with status new and mails
// the firm inbox when a notifier is configured. Notification failures are
// logged, never surfaced to the submitter.
func (s *contactService) Submit(ctx context.Context, req models.CreateContactRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Service:   req.Service,
		Message:   req.Message,
		Status:    models.ContactNew,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.contactRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to store contact submission: %w", err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyContact(msg); err != nil && s.logger != nil {
			s.logger.Warn("Failed to send contact notification mail",
				zap.String("submissionId", msg.ID),
				zap.Error(err),
			)
		}
	}
	return msg, nil
}

// List returns all contact submissions, newest first. Admin only (enforced
// by routing).
func (s *contactService) List(ctx context.Context) ([]*models.ContactMessage, error) {
	msgs, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	return msgs, nil
}

// MarkRead flips a submission's status to read.
func (s *contactService) MarkRead(ctx context.Context, id string) error {
	if err := s.contactRepo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrMessageNotFound, id)
		}
		return fmt.Errorf("failed to mark contact submission '%s' as read: %w", id, err)
	}
	return nil
}

// Delete removes a submission outright.
func (s *contactService) Delete(ctx context.Context, id string) error {
	if err := s.contactRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: '%s'", ErrMessageNotFound, id)
		}
		return fmt.Errorf("failed to delete contact submission '%s': %w", id, err)
	}
	return nil
}
