package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taxportal-backend/internal/models"
	"taxportal-backend/pkg/events"
)

func clientProfile(uid string) *models.UserProfile {
	return &models.UserProfile{UID: uid, Email: uid + "@example.com", DisplayName: "Client " + uid, Role: models.RoleClient}
}

func staffProfile(uid string) *models.UserProfile {
	return &models.UserProfile{UID: uid, Email: uid + "@example.com", DisplayName: "Staff " + uid, Role: models.RoleStaff}
}

func adminProfile(uid string) *models.UserProfile {
	return &models.UserProfile{UID: uid, Email: uid + "@example.com", DisplayName: "Admin " + uid, Role: models.RoleAdmin}
}

func TestCreateCaseStartsSubmitted(t *testing.T) {
	caseRepo := newFakeCaseRepo()
	pub := &recordingPublisher{}
	svc := NewCaseService(caseRepo, newFakeUserRepo(), pub, zap.NewNop())

	actor := clientProfile("c1")
	created, err := svc.CreateCase(context.Background(), actor, models.CreateCaseRequest{
		ServiceType: models.ServiceIndividualTax,
		TaxYear:     "2024",
		Notes:       "first filing",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusSubmitted, created.Status)
	assert.Equal(t, "c1", created.UserID)
	assert.Equal(t, actor.Email, created.UserEmail)
	assert.Equal(t, actor.DisplayName, created.UserName)
	assert.Empty(t, created.AssignedStaffID)

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.TypeCaseCreated, published[0].Type)
	assert.Equal(t, created.ID, published[0].CaseID)
}

func TestCreateCaseRejectsNonClients(t *testing.T) {
	svc := NewCaseService(newFakeCaseRepo(), newFakeUserRepo(), nil, zap.NewNop())

	for _, actor := range []*models.UserProfile{staffProfile("s1"), adminProfile("a1")} {
		_, err := svc.CreateCase(context.Background(), actor, models.CreateCaseRequest{
			ServiceType: models.ServiceBusinessTax,
			TaxYear:     "2024",
		})
		assert.ErrorIs(t, err, ErrForbiddenAccess, "role %s", actor.Role)
	}
}

func TestCreateCaseValidatesServiceTypeAndTaxYear(t *testing.T) {
	svc := NewCaseService(newFakeCaseRepo(), newFakeUserRepo(), nil, zap.NewNop())
	actor := clientProfile("c1")

	_, err := svc.CreateCase(context.Background(), actor, models.CreateCaseRequest{
		ServiceType: "payroll",
		TaxYear:     "2024",
	})
	assert.ErrorIs(t, err, ErrInvalidServiceType)

	_, err = svc.CreateCase(context.Background(), actor, models.CreateCaseRequest{
		ServiceType: models.ServiceBookkeeping,
		TaxYear:     "  ",
	})
	assert.Error(t, err)
}

func TestGetCaseScopes(t *testing.T) {
	caseRepo := newFakeCaseRepo()
	svc := NewCaseService(caseRepo, newFakeUserRepo(), nil, zap.NewNop())

	owner := clientProfile("owner")
	created, err := svc.CreateCase(context.Background(), owner, models.CreateCaseRequest{
		ServiceType: models.ServiceITIN,
		TaxYear:     "2023",
	})
	require.NoError(t, err)
	require.NoError(t, caseRepo.UpdateAssignment(context.Background(), created.ID, "assigned-staff", "Assigned"))

	tests := []struct {
		name    string
		actor   *models.UserProfile
		allowed bool
	}{
		{"owner sees own case", owner, true},
		{"other client blocked", clientProfile("stranger"), false},
		{"assigned staff sees case", staffProfile("assigned-staff"), true},
		{"unassigned staff blocked", staffProfile("other-staff"), false},
		{"admin sees everything", adminProfile("boss"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetCase(context.Background(), tt.actor, created.ID)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbiddenAccess)
			}
		})
	}
}

func TestGetCaseNotFound(t *testing.T) {
	svc := NewCaseService(newFakeCaseRepo(), newFakeUserRepo(), nil, zap.NewNop())
	_, err := svc.GetCase(context.Background(), adminProfile("boss"), "missing")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestListCasesByRole(t *testing.T) {
	caseRepo := newFakeCaseRepo()
	svc := NewCaseService(caseRepo, newFakeUserRepo(), nil, zap.NewNop())
	ctx := context.Background()

	c1, err := svc.CreateCase(ctx, clientProfile("alice"), models.CreateCaseRequest{ServiceType: models.ServiceIndividualTax, TaxYear: "2024"})
	require.NoError(t, err)
	_, err = svc.CreateCase(ctx, clientProfile("bob"), models.CreateCaseRequest{ServiceType: models.ServiceSelfEmployed, TaxYear: "2024"})
	require.NoError(t, err)
	require.NoError(t, caseRepo.UpdateAssignment(ctx, c1.ID, "staff1", "Staff One"))

	mine, err := svc.ListCases(ctx, clientProfile("alice"))
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	assigned, err := svc.ListCases(ctx, staffProfile("staff1"))
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	all, err := svc.ListCases(ctx, adminProfile("boss"))
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestChangeStatusPermissions(t *testing.T) {
	caseRepo := newFakeCaseRepo()
	pub := &recordingPublisher{}
	svc := NewCaseService(caseRepo, newFakeUserRepo(), pub, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateCase(ctx, clientProfile("owner"), models.CreateCaseRequest{ServiceType: models.ServiceAmendedReturn, TaxYear: "2022"})
	require.NoError(t, err)
	require.NoError(t, caseRepo.UpdateAssignment(ctx, created.ID, "staff1", "Staff One"))

	// Clients never change status, not even on their own case.
	_, err = svc.ChangeStatus(ctx, clientProfile("owner"), created.ID, models.StatusReviewing)
	assert.ErrorIs(t, err, ErrForbiddenAccess)

	// Staff only on assigned cases.
	_, err = svc.ChangeStatus(ctx, staffProfile("other-staff"), created.ID, models.StatusReviewing)
	assert.ErrorIs(t, err, ErrForbiddenAccess)

	updated, err := svc.ChangeStatus(ctx, staffProfile("staff1"), created.ID, models.StatusReviewing)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReviewing, updated.Status)

	// Admin on any case, including jumps and the out-of-band rejected status.
	updated, err = svc.ChangeStatus(ctx, adminProfile("boss"), created.ID, models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)

	published := pub.published()
	var statusEvents int
	for _, ev := range published {
		if ev.Type == events.TypeStatusChanged {
			statusEvents++
		}
	}
	assert.Equal(t, 2, statusEvents)
}

func TestChangeStatusRejectsUnknownValue(t *testing.T) {
	caseRepo := newFakeCaseRepo()
	svc := NewCaseService(caseRepo, newFakeUserRepo(), nil, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateCase(ctx, clientProfile("owner"), models.CreateCaseRequest{ServiceType: models.ServiceBusinessTax, TaxYear: "2024"})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, adminProfile("boss"), created.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, caseRepo.statuses)
}

func TestAssignStaff(t *testing.T) {
	caseRepo := newFakeCaseRepo()
	userRepo := newFakeUserRepo()
	pub := &recordingPublisher{}
	svc := NewCaseService(caseRepo, userRepo, pub, zap.NewNop())
	ctx := context.Background()

	created, err := svc.CreateCase(ctx, clientProfile("owner"), models.CreateCaseRequest{ServiceType: models.ServiceIncorporation, TaxYear: "2024"})
	require.NoError(t, err)

	require.NoError(t, userRepo.Create(ctx, staffProfile("staff1")))
	require.NoError(t, userRepo.Create(ctx, clientProfile("civilian")))

	// Only admins assign.
	_, err = svc.AssignStaff(ctx, staffProfile("staff1"), created.ID, "staff1")
	assert.ErrorIs(t, err, ErrForbiddenAccess)

	// Assignee must exist and hold the staff role.
	_, err = svc.AssignStaff(ctx, adminProfile("boss"), created.ID, "ghost")
	assert.ErrorIs(t, err, ErrStaffNotFound)
	_, err = svc.AssignStaff(ctx, adminProfile("boss"), created.ID, "civilian")
	assert.ErrorIs(t, err, ErrNotStaff)

	updated, err := svc.AssignStaff(ctx, adminProfile("boss"), created.ID, "staff1")
	require.NoError(t, err)
	assert.Equal(t, "staff1", updated.AssignedStaffID)
	assert.Equal(t, "Staff staff1", updated.AssignedStaffName)
	require.Len(t, caseRepo.assignments, 1)
}
