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

const minStaffPasswordLen = 6

// staffService implements the StaffService interface. Identities are
// provisioned through the Admin SDK, which cannot disturb the calling
// admin's own session.
type staffService struct {
	authProvider db.AuthProvider
	userRepo     db.UserRepository
	logger       *zap.Logger
}

// NewStaffService creates a new StaffService instance.
func NewStaffService(authProvider db.AuthProvider, userRepo db.UserRepository, logger *zap.Logger) StaffService {
	return &staffService{
		authProvider: authProvider,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// CreateStaff provisions a new staff identity and its profile document.
// Password rules are checked before the identity provider is contacted; a
// duplicate email is surfaced distinctly from other provider failures.
func (s *staffService) CreateStaff(ctx context.Context, req models.CreateStaffRequest) (*models.UserProfile, error) {
	if len(req.Password) < minStaffPasswordLen {
		return nil, ErrPasswordTooShort
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	uid, err := s.authProvider.CreateUser(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, db.ErrEmailExists) {
			return nil, fmt.Errorf("%w: %s", ErrEmailInUse, req.Email)
		}
		return nil, fmt.Errorf("failed to provision staff identity for '%s': %w", req.Email, err)
	}

	profile := &models.UserProfile{
		UID:         uid,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        models.RoleStaff,
		PhotoURL:    "",
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, profile); err != nil {
		// The auth account now exists without a profile. There is no
		// rollback path through the provider; the next initialize call for
		// that identity will self-provision a client profile instead.
		if s.logger != nil {
			s.logger.Error("Staff identity created but profile write failed",
				zap.String("uid", uid),
				zap.String("email", req.Email),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("staff identity created but profile write failed for '%s': %w", req.Email, err)
	}
	return profile, nil
}
