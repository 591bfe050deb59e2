package api

import (
	"time"

	"taxportal-backend/internal/models"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// InitializeProfileResponse is returned by POST /users/initialize.
type InitializeProfileResponse struct {
	Profile *models.UserProfile `json:"profile"`
	Created bool                `json:"created"`
}

// ClientCaseView is the case shape returned to clients. Staff assignment is
// internal routing and never reaches the client surface.
type ClientCaseView struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	UserEmail   string             `json:"userEmail"`
	UserName    string             `json:"userName"`
	ServiceType models.ServiceType `json:"serviceType"`
	TaxYear     string             `json:"taxYear"`
	Status      models.CaseStatus  `json:"status"`
	Notes       string             `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func toClientCaseView(tc *models.TaxCase) *ClientCaseView {
	if tc == nil {
		return nil
	}
	return &ClientCaseView{
		ID:          tc.ID,
		UserID:      tc.UserID,
		UserEmail:   tc.UserEmail,
		UserName:    tc.UserName,
		ServiceType: tc.ServiceType,
		TaxYear:     tc.TaxYear,
		Status:      tc.Status,
		Notes:       tc.Notes,
		CreatedAt:   tc.CreatedAt,
		UpdatedAt:   tc.UpdatedAt,
	}
}

// caseViewFor picks the response shape by role: clients get the trimmed
// view, staff and admins the full record.
func caseViewFor(actor *models.UserProfile, tc *models.TaxCase) interface{} {
	if actor != nil && actor.Role == models.RoleClient {
		return toClientCaseView(tc)
	}
	return tc
}

func caseListViewFor(actor *models.UserProfile, cases []*models.TaxCase) interface{} {
	if actor == nil || actor.Role != models.RoleClient {
		return cases
	}
	views := make([]*ClientCaseView, 0, len(cases))
	for _, tc := range cases {
		views = append(views, toClientCaseView(tc))
	}
	return views
}
