package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taxportal-backend/internal/db"
	"taxportal-backend/internal/models"
	"taxportal-backend/internal/workflow"
	"taxportal-backend/pkg/events"
)

// caseService implements the CaseService interface.
type caseService struct {
	caseRepo  db.CaseRepository
	userRepo  db.UserRepository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewCaseService creates a new CaseService instance.
func NewCaseService(caseRepo db.CaseRepository, userRepo db.UserRepository, publisher events.Publisher, logger *zap.Logger) CaseService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &caseService{
		caseRepo:  caseRepo,
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateCase opens a new case for the acting client. The owner identity is
// taken from the verified actor, never from the request, and the status is
// always submitted.
func (s *caseService) CreateCase(ctx context.Context, actor *models.UserProfile, req models.CreateCaseRequest) (*models.TaxCase, error) {
	if actor.Role != models.RoleClient {
		return nil, fmt.Errorf("%w: only clients create cases", ErrForbiddenAccess)
	}
	if !req.ServiceType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidServiceType, req.ServiceType)
	}
	if strings.TrimSpace(req.TaxYear) == "" {
		return nil, errors.New("taxYear is required")
	}

	taxCase := &models.TaxCase{
		UserID:      actor.UID,
		UserEmail:   actor.Email,
		UserName:    actor.DisplayName,
		ServiceType: req.ServiceType,
		TaxYear:     req.TaxYear,
		Notes:       req.Notes,
		Status:      models.StatusSubmitted,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if _, err := s.caseRepo.Create(ctx, taxCase); err != nil {
		return nil, fmt.Errorf("failed to create case for client '%s': %w", actor.UID, err)
	}

	s.publish(events.CaseEvent{
		Type:       events.TypeCaseCreated,
		CaseID:     taxCase.ID,
		ActorUID:   actor.UID,
		ActorRole:  string(actor.Role),
		Status:     string(taxCase.Status),
		OccurredAt: time.Now().UTC(),
	})
	return taxCase, nil
}

// GetCase retrieves one case, enforcing the role-scoped view rules: clients
// see their own cases, staff their assigned ones, admins everything.
func (s *caseService) GetCase(ctx context.Context, actor *models.UserProfile, caseID string) (*models.TaxCase, error) {
	taxCase, err := s.fetch(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !workflow.MayViewCase(actor.Role, actor.UID, taxCase) {
		return nil, fmt.Errorf("%w: case '%s'", ErrForbiddenAccess, caseID)
	}
	return taxCase, nil
}

// ListCases returns the actor's role-scoped case list.
func (s *caseService) ListCases(ctx context.Context, actor *models.UserProfile) ([]*models.TaxCase, error) {
	switch actor.Role {
	case models.RoleClient:
		return s.caseRepo.ListByUser(ctx, actor.UID)
	case models.RoleStaff:
		return s.caseRepo.ListByAssignee(ctx, actor.UID)
	case models.RoleAdmin:
		return s.caseRepo.ListAll(ctx)
	}
	return nil, fmt.Errorf("%w: unknown role %q", ErrForbiddenAccess, actor.Role)
}

// ChangeStatus sets a new status on a case. Any status in the vocabulary
// may follow any other; values outside the vocabulary are rejected. Admins
// act on any case, staff only on their assigned cases.
func (s *caseService) ChangeStatus(ctx context.Context, actor *models.UserProfile, caseID string, newStatus models.CaseStatus) (*models.TaxCase, error) {
	if !workflow.ValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	taxCase, err := s.fetch(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !workflow.MayChangeStatus(actor.Role, actor.UID, taxCase) {
		return nil, fmt.Errorf("%w: status change on case '%s'", ErrForbiddenAccess, caseID)
	}
	if err := workflow.ValidateTransition(taxCase.Status, newStatus); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	if err := s.caseRepo.UpdateStatus(ctx, caseID, newStatus); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: case '%s'", ErrCaseNotFound, caseID)
		}
		return nil, fmt.Errorf("failed to change status on case '%s': %w", caseID, err)
	}
	taxCase.Status = newStatus

	s.publish(events.CaseEvent{
		Type:       events.TypeStatusChanged,
		CaseID:     caseID,
		ActorUID:   actor.UID,
		ActorRole:  string(actor.Role),
		Status:     string(newStatus),
		OccurredAt: time.Now().UTC(),
	})
	return taxCase, nil
}

// AssignStaff sets or replaces the staff assignment on a case. Admin only.
// The assignee must resolve to a profile with role staff; the case patch
// itself is a plain last-write-wins update.
func (s *caseService) AssignStaff(ctx context.Context, actor *models.UserProfile, caseID, staffID string) (*models.TaxCase, error) {
	if actor.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins assign staff", ErrForbiddenAccess)
	}

	taxCase, err := s.fetch(ctx, caseID)
	if err != nil {
		return nil, err
	}

	staff, err := s.userRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrStaffNotFound, staffID)
		}
		return nil, fmt.Errorf("failed to resolve staff profile '%s': %w", staffID, err)
	}
	if staff.Role != models.RoleStaff {
		return nil, fmt.Errorf("%w: '%s' has role %q", ErrNotStaff, staffID, staff.Role)
	}

	if err := s.caseRepo.UpdateAssignment(ctx, caseID, staff.UID, staff.DisplayName); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: case '%s'", ErrCaseNotFound, caseID)
		}
		return nil, fmt.Errorf("failed to assign staff on case '%s': %w", caseID, err)
	}
	taxCase.AssignedStaffID = staff.UID
	taxCase.AssignedStaffName = staff.DisplayName

	s.publish(events.CaseEvent{
		Type:       events.TypeStaffAssigned,
		CaseID:     caseID,
		ActorUID:   actor.UID,
		ActorRole:  string(actor.Role),
		StaffID:    staff.UID,
		OccurredAt: time.Now().UTC(),
	})
	return taxCase, nil
}

func (s *caseService) fetch(ctx context.Context, caseID string) (*models.TaxCase, error) {
	taxCase, err := s.caseRepo.GetByID(ctx, caseID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: case '%s'", ErrCaseNotFound, caseID)
		}
		return nil, fmt.Errorf("failed to get case '%s': %w", caseID, err)
	}
	return taxCase, nil
}

// publish is best effort: a broker outage never blocks the write that
// triggered the event.
func (s *caseService) publish(event events.CaseEvent) {
	if err := s.publisher.Publish(event); err != nil && s.logger != nil {
		s.logger.Warn("Failed to publish case event",
			zap.String("type", event.Type),
			zap.String("caseId", event.CaseID),
			zap.Error(err),
		)
	}
}
