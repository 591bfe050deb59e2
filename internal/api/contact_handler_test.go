package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taxportal-backend/internal/models"
)

type fakeContactService struct {
	submitted []models.CreateContactRequest
	failWith  error
}

func (f *fakeContactService) Submit(_ context.Context, req models.CreateContactRequest) (*models.ContactMessage, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.submitted = append(f.submitted, req)
	return &models.ContactMessage{
		ID:      "msg-1",
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Service: req.Service,
		Message: req.Message,
		Status:  models.ContactNew,
	}, nil
}

func (f *fakeContactService) List(context.Context) ([]*models.ContactMessage, error) {
	return nil, nil
}
func (f *fakeContactService) MarkRead(context.Context, string) error { return nil }
func (f *fakeContactService) Delete(context.Context, string) error   { return nil }

func newContactTestRouter(svc *fakeContactService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewContactHandler(svc, zap.NewNop())
	router.POST("/api/v1/contact", handler.SubmitContact)
	return router
}

func TestSubmitContactAcceptsAnonymousPayload(t *testing.T) {
	svc := &fakeContactService{}
	router := newContactTestRouter(svc)

	body := `{"name":"Jane","email":"jane@example.com","phone":"555-0101","service":"Bookkeeping","message":"Help with Q3."}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.submitted, 1)
	assert.Equal(t, "Jane", svc.submitted[0].Name)
	assert.Contains(t, w.Body.String(), `"status":"new"`)
}

func TestSubmitContactValidatesPayload(t *testing.T) {
	svc := &fakeContactService{}
	router := newContactTestRouter(svc)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"j@example.com","message":"hi"}`},
		{"missing message", `{"name":"J","email":"j@example.com"}`},
		{"bad email", `{"name":"J","email":"not-an-email","message":"hi"}`},
		{"not json", `name=J`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, svc.submitted)
		})
	}
}
