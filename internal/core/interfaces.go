package core

import (
	"context"
	"io"

	"taxportal-backend/internal/models"
)

// UserService defines the interface for profile directory operations.
type UserService interface {
	// GetOrCreate resolves the profile for an authenticated identity,
	// provisioning a client profile on first sign-in. The reserved admin
	// email is auto-created as (or promoted to) admin. Returns the profile
	// and whether it was created by this call.
	GetOrCreate(ctx context.Context, uid, email, displayName, photoURL string) (*models.UserProfile, bool, error)
	GetByID(ctx context.Context, uid string) (*models.UserProfile, error)
	// List returns all profiles, optionally filtered by a case-insensitive
	// substring match over display name and email.
	List(ctx context.Context, search string) ([]*models.UserProfile, error)
	ListStaff(ctx context.Context) ([]*models.UserProfile, error)
}

// CaseService defines the interface for case registry operations. Every
// method takes the acting profile; role and ownership rules are enforced
// here, not in the transport layer.
type CaseService interface {
	CreateCase(ctx context.Context, actor *models.UserProfile, req models.CreateCaseRequest) (*models.TaxCase, error)
	GetCase(ctx context.Context, actor *models.UserProfile, caseID string) (*models.TaxCase, error)
	ListCases(ctx context.Context, actor *models.UserProfile) ([]*models.TaxCase, error)
	ChangeStatus(ctx context.Context, actor *models.UserProfile, caseID string, status models.CaseStatus) (*models.TaxCase, error)
	AssignStaff(ctx context.Context, actor *models.UserProfile, caseID, staffID string) (*models.TaxCase, error)
}

// UploadInput carries one file upload into the document service.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Category    models.DocumentCategory // empty means the role's default
	Body        io.Reader
	OnProgress  func(pct float64)
}

// DocumentService defines the interface for the per-case document ledger.
type DocumentService interface {
	ListDocuments(ctx context.Context, actor *models.UserProfile, caseID string) ([]*models.CaseDocument, error)
	Upload(ctx context.Context, actor *models.UserProfile, caseID string, in UploadInput) (*models.CaseDocument, error)
}

// ContactService defines the interface for contact intake.
type ContactService interface {
	Submit(ctx context.Context, req models.CreateContactRequest) (*models.ContactMessage, error)
	List(ctx context.Context) ([]*models.ContactMessage, error)
	MarkRead(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// StaffService defines the interface for admin-driven staff provisioning.
type StaffService interface {
	CreateStaff(ctx context.Context, req models.CreateStaffRequest) (*models.UserProfile, error)
}

// ContactNotifier delivers a best-effort notification for a new contact
// submission. Implemented by pkg/mailer.
type ContactNotifier interface {
	NotifyContact(msg *models.ContactMessage) error
}
