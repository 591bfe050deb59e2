package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"taxportal-backend/internal/db"
	"taxportal-backend/internal/models"
	"taxportal-backend/pkg/cache"
)

const profileCacheTTL = 5 * time.Minute

// userService implements the UserService interface.
type userService struct {
	userRepo   db.UserRepository
	cache      cache.Cache // optional; nil disables caching
	adminEmail string      // reserved address auto-provisioned as admin; empty disables
}

// NewUserService creates a new UserService instance. cache may be nil.
func NewUserService(userRepo db.UserRepository, profileCache cache.Cache, adminEmail string) UserService {
	return &userService{
		userRepo:   userRepo,
		cache:      profileCache,
		adminEmail: adminEmail,
	}
}

// GetOrCreate retrieves the profile for uid, creating it on first sign-in.
// Self-provisioned profiles are clients; the reserved admin email is created
// as admin, and an existing profile under that email is promoted if some
// earlier write left it demoted.
func (s *userService) GetOrCreate(ctx context.Context, uid, email, displayName, photoURL string) (*models.UserProfile, bool, error) {
	if s.userRepo == nil {
		return nil, false, errors.New("UserRepository not initialized in UserService")
	}

	profile, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			role := models.RoleClient
			name := displayName
			if s.isReservedAdmin(email) {
				role = models.RoleAdmin
				if name == "" {
					name = "Admin"
				}
			}
			newProfile := &models.UserProfile{
				UID:         uid,
				Email:       email,
				DisplayName: name,
				Role:        role,
				PhotoURL:    photoURL,
				CreatedAt:   time.Now().UTC(),
			}
			if createErr := s.userRepo.Create(ctx, newProfile); createErr != nil {
				return nil, false, fmt.Errorf("failed to create profile (uid: %s) after not found: %w", uid, createErr)
			}
			s.cacheProfile(ctx, newProfile)
			return newProfile, true, nil
		}
		return nil, false, fmt.Errorf("failed to get profile by UID '%s' from repository: %w", uid, err)
	}

	if s.isReservedAdmin(email) && profile.Role != models.RoleAdmin {
		if err := s.userRepo.SetRole(ctx, uid, models.RoleAdmin); err != nil {
			return nil, false, fmt.Errorf("failed to promote reserved admin '%s': %w", uid, err)
		}
		profile.Role = models.RoleAdmin
	}
	s.cacheProfile(ctx, profile)
	return profile, false, nil
}

// GetByID retrieves a profile by UID, consulting the cache first.
func (s *userService) GetByID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if cached := s.cachedProfile(ctx, uid); cached != nil {
		return cached, nil
	}

	profile, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: profile with UID '%s'", ErrUserNotFound, uid)
		}
		return nil, fmt.Errorf("failed to get profile by UID '%s' from repository: %w", uid, err)
	}
	s.cacheProfile(ctx, profile)
	return profile, nil
}

// List returns every profile, optionally filtered by a case-insensitive
// substring over display name and email. The filter runs in memory, the
// same way the admin user table searched.
func (s *userService) List(ctx context.Context, search string) ([]*models.UserProfile, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	if search == "" {
		return users, nil
	}

	needle := strings.ToLower(search)
	var matched []*models.UserProfile
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.DisplayName), needle) ||
			strings.Contains(strings.ToLower(u.Email), needle) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// ListStaff returns all staff profiles, newest first.
func (s *userService) ListStaff(ctx context.Context) ([]*models.UserProfile, error) {
	staff, err := s.userRepo.ListByRole(ctx, models.RoleStaff)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff profiles: %w", err)
	}
	return staff, nil
}

func (s *userService) isReservedAdmin(email string) bool {
	return s.adminEmail != "" && strings.EqualFold(email, s.adminEmail)
}

func (s *userService) cacheProfile(ctx context.Context, profile *models.UserProfile) {
	if s.cache == nil || profile == nil {
		return
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return
	}
	// Best effort; a failed cache write only costs the next lookup.
	_ = s.cache.Set(ctx, profileCacheKey(profile.UID), string(payload), profileCacheTTL)
}

func (s *userService) cachedProfile(ctx context.Context, uid string) *models.UserProfile {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.Get(ctx, profileCacheKey(uid))
	if err != nil || payload == "" {
		return nil
	}
	var profile models.UserProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil
	}
	return &profile
}

func profileCacheKey(uid string) string {
	return "profile:" + uid
}
