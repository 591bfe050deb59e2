package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxportal-backend/internal/models"
)

func TestGetOrCreateSelfProvisionsClient(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, nil, "")

	profile, created, err := svc.GetOrCreate(context.Background(), "uid-1", "alice@example.com", "Alice", "https://pic/1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleClient, profile.Role)
	assert.Equal(t, "Alice", profile.DisplayName)

	// Second call is a plain read, never a role reset.
	again, created, err := svc.GetOrCreate(context.Background(), "uid-1", "alice@example.com", "Alice", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, profile.UID, again.UID)
}

func TestGetOrCreateReservedAdminEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewUserService(userRepo, nil, "owner@firm.example")

	profile, created, err := svc.GetOrCreate(context.Background(), "uid-a", "Owner@Firm.Example", "", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.RoleAdmin, profile.Role)
	assert.Equal(t, "Admin", profile.DisplayName, "reserved admin gets a fallback display name")
}

func TestGetOrCreatePromotesDemotedReservedAdmin(t *testing.T) {
	userRepo := newFakeUserRepo()
	require.NoError(t, userRepo.Create(context.Background(), &models.UserProfile{
		UID:   "uid-a",
		Email: "owner@firm.example",
		Role:  models.RoleClient,
	}))
	svc := NewUserService(userRepo, nil, "owner@firm.example")

	profile, created, err := svc.GetOrCreate(context.Background(), "uid-a", "owner@firm.example", "", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, models.RoleAdmin, profile.Role)
	assert.Equal(t, models.RoleAdmin, userRepo.setRoles["uid-a"])
}

func TestGetByIDNotFound(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil, "")
	_, err := svc.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListFiltersBySubstring(t *testing.T) {
	userRepo := newFakeUserRepo()
	ctx := context.Background()
	require.NoError(t, userRepo.Create(ctx, &models.UserProfile{UID: "1", Email: "alice@example.com", DisplayName: "Alice Jones", Role: models.RoleClient}))
	require.NoError(t, userRepo.Create(ctx, &models.UserProfile{UID: "2", Email: "bob@example.com", DisplayName: "Bob Smith", Role: models.RoleClient}))
	require.NoError(t, userRepo.Create(ctx, &models.UserProfile{UID: "3", Email: "carol@jonesllc.com", DisplayName: "Carol", Role: models.RoleStaff}))
	svc := NewUserService(userRepo, nil, "")

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Matches display name and email, case-insensitively.
	matched, err := svc.List(ctx, "JONES")
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	none, err := svc.List(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListStaffOnlyReturnsStaff(t *testing.T) {
	userRepo := newFakeUserRepo()
	ctx := context.Background()
	require.NoError(t, userRepo.Create(ctx, &models.UserProfile{UID: "1", Role: models.RoleClient}))
	require.NoError(t, userRepo.Create(ctx, &models.UserProfile{UID: "2", Role: models.RoleStaff}))
	require.NoError(t, userRepo.Create(ctx, &models.UserProfile{UID: "3", Role: models.RoleAdmin}))
	svc := NewUserService(userRepo, nil, "")

	staff, err := svc.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "2", staff[0].UID)
}
