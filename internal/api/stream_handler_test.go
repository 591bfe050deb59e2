package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taxportal-backend/internal/core"
	"taxportal-backend/internal/middleware"
	"taxportal-backend/internal/models"
	"taxportal-backend/internal/watch"
)

type fakeStreamer struct {
	caseEvents []watch.CaseEvent
	docEvents  []watch.DocumentsEvent
	listEvents []watch.CaseListEvent
	listScopes []string
}

func (f *fakeStreamer) WatchCase(_ context.Context, _ string) <-chan watch.CaseEvent {
	out := make(chan watch.CaseEvent, len(f.caseEvents))
	for _, ev := range f.caseEvents {
		out <- ev
	}
	close(out)
	return out
}

func (f *fakeStreamer) WatchCaseDocuments(_ context.Context, _ string) <-chan watch.DocumentsEvent {
	out := make(chan watch.DocumentsEvent, len(f.docEvents))
	for _, ev := range f.docEvents {
		out <- ev
	}
	close(out)
	return out
}

func (f *fakeStreamer) WatchCasesByUser(_ context.Context, userID string) <-chan watch.CaseListEvent {
	f.listScopes = append(f.listScopes, "user:"+userID)
	return f.listChan()
}

func (f *fakeStreamer) WatchCasesByAssignee(_ context.Context, staffID string) <-chan watch.CaseListEvent {
	f.listScopes = append(f.listScopes, "assignee:"+staffID)
	return f.listChan()
}

func (f *fakeStreamer) WatchAllCases(_ context.Context) <-chan watch.CaseListEvent {
	f.listScopes = append(f.listScopes, "all")
	return f.listChan()
}

func (f *fakeStreamer) listChan() <-chan watch.CaseListEvent {
	out := make(chan watch.CaseListEvent, len(f.listEvents))
	for _, ev := range f.listEvents {
		out <- ev
	}
	close(out)
	return out
}

type fakeCaseService struct {
	cases map[string]*models.TaxCase
}

func (f *fakeCaseService) CreateCase(context.Context, *models.UserProfile, models.CreateCaseRequest) (*models.TaxCase, error) {
	panic("not used")
}

func (f *fakeCaseService) GetCase(_ context.Context, actor *models.UserProfile, caseID string) (*models.TaxCase, error) {
	c, ok := f.cases[caseID]
	if !ok {
		return nil, core.ErrCaseNotFound
	}
	if actor.Role == models.RoleClient && c.UserID != actor.UID {
		return nil, core.ErrForbiddenAccess
	}
	return c, nil
}

func (f *fakeCaseService) ListCases(context.Context, *models.UserProfile) ([]*models.TaxCase, error) {
	return nil, nil
}

func (f *fakeCaseService) ChangeStatus(context.Context, *models.UserProfile, string, models.CaseStatus) (*models.TaxCase, error) {
	panic("not used")
}

func (f *fakeCaseService) AssignStaff(context.Context, *models.UserProfile, string, string) (*models.TaxCase, error) {
	panic("not used")
}

func withProfile(profile *models.UserProfile) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextProfileKey, profile)
		c.Next()
	}
}

func newStreamTestRouter(profile *models.UserProfile, streamer CaseStreamer, cs core.CaseService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewStreamHandler(streamer, cs, zap.NewNop())
	group := router.Group("/api/v1/cases", withProfile(profile))
	group.GET("/stream", handler.StreamCases)
	group.GET("/:caseId/stream", handler.StreamCase)
	group.GET("/:caseId/documents/stream", handler.StreamCaseDocuments)
	return router
}

func TestStreamCasePushesEvents(t *testing.T) {
	owned := &models.TaxCase{ID: "c1", UserID: "owner", Status: models.StatusReviewing, AssignedStaffID: "staff1", AssignedStaffName: "Staff One"}
	streamer := &fakeStreamer{caseEvents: []watch.CaseEvent{{Case: owned, Exists: true}}}
	cs := &fakeCaseService{cases: map[string]*models.TaxCase{"c1": owned}}
	router := newStreamTestRouter(&models.UserProfile{UID: "owner", Role: models.RoleClient}, streamer, cs)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cases/c1/stream", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event: case\n")
	assert.Contains(t, body, `"status":"reviewing"`)
	// Client streams never carry the staff assignment.
	assert.NotContains(t, body, "assignedStaffId")
	assert.NotContains(t, body, "Staff One")
}

func TestStreamCaseDeniedOutOfScope(t *testing.T) {
	owned := &models.TaxCase{ID: "c1", UserID: "owner"}
	streamer := &fakeStreamer{}
	cs := &fakeCaseService{cases: map[string]*models.TaxCase{"c1": owned}}
	router := newStreamTestRouter(&models.UserProfile{UID: "stranger", Role: models.RoleClient}, streamer, cs)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cases/c1/stream", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cases/missing/stream", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStreamCasesScopesByRole(t *testing.T) {
	tests := []struct {
		profile   *models.UserProfile
		wantScope string
	}{
		{&models.UserProfile{UID: "c1", Role: models.RoleClient}, "user:c1"},
		{&models.UserProfile{UID: "s1", Role: models.RoleStaff}, "assignee:s1"},
		{&models.UserProfile{UID: "a1", Role: models.RoleAdmin}, "all"},
	}
	for _, tt := range tests {
		streamer := &fakeStreamer{listEvents: []watch.CaseListEvent{{}}}
		router := newStreamTestRouter(tt.profile, streamer, &fakeCaseService{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cases/stream", nil))

		assert.Equal(t, http.StatusOK, w.Code, "role %s", tt.profile.Role)
		require.Len(t, streamer.listScopes, 1)
		assert.Equal(t, tt.wantScope, streamer.listScopes[0])
	}
}

func TestStreamDocumentsPushesLedger(t *testing.T) {
	owned := &models.TaxCase{ID: "c1", UserID: "owner"}
	streamer := &fakeStreamer{docEvents: []watch.DocumentsEvent{{
		Documents: []*models.CaseDocument{{ID: "d1", Name: "w2.pdf", Category: models.CategoryClientUpload}},
	}}}
	cs := &fakeCaseService{cases: map[string]*models.TaxCase{"c1": owned}}
	router := newStreamTestRouter(&models.UserProfile{UID: "owner", Role: models.RoleClient}, streamer, cs)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/cases/c1/documents/stream", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "event: documents\n")
	assert.Contains(t, body, `"name":"w2.pdf"`)
}
