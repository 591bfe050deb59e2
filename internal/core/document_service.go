package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"taxportal-backend/internal/db"
	"taxportal-backend/internal/models"
	"taxportal-backend/internal/storage"
	"taxportal-backend/internal/workflow"
	"taxportal-backend/pkg/events"
)

// documentService implements the DocumentService interface.
type documentService struct {
	docRepo   db.DocumentRepository
	caseRepo  db.CaseRepository
	uploader  storage.BlobUploader
	publisher events.Publisher
	logger    *zap.Logger
}

// NewDocumentService creates a new DocumentService instance.
func NewDocumentService(docRepo db.DocumentRepository, caseRepo db.CaseRepository, uploader storage.BlobUploader, publisher events.Publisher, logger *zap.Logger) DocumentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &documentService{
		docRepo:   docRepo,
		caseRepo:  caseRepo,
		uploader:  uploader,
		publisher: publisher,
		logger:    logger,
	}
}

// ListDocuments returns the case's document ledger, newest first, after the
// same view check that guards the case itself.
func (s *documentService) ListDocuments(ctx context.Context, actor *models.UserProfile, caseID string) ([]*models.CaseDocument, error) {
	if _, err := s.viewableCase(ctx, actor, caseID); err != nil {
		return nil, err
	}
	docs, err := s.docRepo.ListByCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents for case '%s': %w", caseID, err)
	}
	return docs, nil
}

// Upload streams the blob to storage and, only once the download URL is
// known, appends one immutable ledger record. A failure anywhere before the
// record write leaves the ledger untouched; the partial blob, if any, stays
// orphaned.
func (s *documentService) Upload(ctx context.Context, actor *models.UserProfile, caseID string, in UploadInput) (*models.CaseDocument, error) {
	taxCase, err := s.viewableCase(ctx, actor, caseID)
	if err != nil {
		return nil, err
	}

	category := in.Category
	if category == "" {
		category = workflow.DefaultCategory(actor.Role)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	if !workflow.MayUploadCategory(actor.Role, category) {
		return nil, fmt.Errorf("%w: role %q, category %q", ErrCategoryNotAllowed, actor.Role, category)
	}
	if actor.Role == models.RoleClient && !workflow.ClientUploadOpen(taxCase.Status) {
		return nil, fmt.Errorf("%w: case '%s'", ErrUploadClosed, caseID)
	}
	if in.FileName == "" {
		return nil, errors.New("fileName is required for upload")
	}

	downloadURL, err := s.uploader.Upload(ctx, caseID, in.FileName, in.ContentType, in.Size, in.Body, in.OnProgress)
	if err != nil {
		return nil, fmt.Errorf("upload failed for '%s' on case '%s': %w", in.FileName, caseID, err)
	}

	doc := &models.CaseDocument{
		Name:       in.FileName,
		FileName:   in.FileName,
		URL:        downloadURL,
		FileURL:    downloadURL,
		Type:       in.ContentType,
		FileType:   in.ContentType,
		UploadedBy: string(actor.Role),
		Category:   category,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.docRepo.Create(ctx, caseID, doc); err != nil {
		return nil, fmt.Errorf("blob stored but ledger write failed for '%s' on case '%s': %w", in.FileName, caseID, err)
	}

	s.publish(events.CaseEvent{
		Type:       events.TypeDocumentUploaded,
		CaseID:     caseID,
		ActorUID:   actor.UID,
		ActorRole:  string(actor.Role),
		Category:   string(category),
		FileName:   in.FileName,
		OccurredAt: time.Now().UTC(),
	})
	return doc, nil
}

func (s *documentService) viewableCase(ctx context.Context, actor *models.UserProfile, caseID string) (*models.TaxCase, error) {
	taxCase, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: case '%s'", ErrCaseNotFound, caseID)
		}
		return nil, fmt.Errorf("failed to get case '%s': %w", caseID, err)
	}
	if !workflow.MayViewCase(actor.Role, actor.UID, taxCase) {
		return nil, fmt.Errorf("%w: case '%s'", ErrForbiddenAccess, caseID)
	}
	return taxCase, nil
}

func (s *documentService) publish(event events.CaseEvent) {
	if err := s.publisher.Publish(event); err != nil && s.logger != nil {
		s.logger.Warn("Failed to publish case event",
			zap.String("type", event.Type),
			zap.String("caseId", event.CaseID),
			zap.Error(err),
		)
	}
}
