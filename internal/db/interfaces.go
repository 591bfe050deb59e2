package db

import (
	"context"

	"taxportal-backend/internal/models"
)

// UserRepository defines the interface for profile directory storage.
type UserRepository interface {
	GetByID(ctx context.Context, uid string) (*models.UserProfile, error)
	Create(ctx context.Context, user *models.UserProfile) error
	SetRole(ctx context.Context, uid string, role models.Role) error
	List(ctx context.Context) ([]*models.UserProfile, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.UserProfile, error)
}

// CaseRepository defines the interface for case registry storage.
type CaseRepository interface {
	Create(ctx context.Context, taxCase *models.TaxCase) (string, error) // returns new case ID
	GetByID(ctx context.Context, caseID string) (*models.TaxCase, error)
	ListByUser(ctx context.Context, userID string) ([]*models.TaxCase, error)
	ListByAssignee(ctx context.Context, staffID string) ([]*models.TaxCase, error)
	ListAll(ctx context.Context) ([]*models.TaxCase, error)
	// UpdateStatus patches status and updatedAt as a single document write.
	UpdateStatus(ctx context.Context, caseID string, status models.CaseStatus) error
	// UpdateAssignment patches assignedStaffId and assignedStaffName only.
	UpdateAssignment(ctx context.Context, caseID, staffID, staffName string) error
}

// DocumentRepository defines the interface for the per-case document ledger.
// Records are append-only: no update, no delete.
type DocumentRepository interface {
	Create(ctx context.Context, caseID string, doc *models.CaseDocument) (string, error)
	ListByCase(ctx context.Context, caseID string) ([]*models.CaseDocument, error)
}

// ContactRepository defines the interface for contact intake storage.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) (string, error)
	List(ctx context.Context) ([]*models.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
