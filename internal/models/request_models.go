package models

// CreateCaseRequest is the body for POST /cases. The creating client's
// identity (userId/userEmail/userName) comes from the verified token, never
// from the payload.
type CreateCaseRequest struct {
	ServiceType ServiceType `json:"serviceType" binding:"required"`
	TaxYear     string      `json:"taxYear" binding:"required"`
	Notes       string      `json:"notes,omitempty"`
}

// UpdateStatusRequest is the body for PATCH .../status.
type UpdateStatusRequest struct {
	Status CaseStatus `json:"status" binding:"required"`
}

// AssignStaffRequest is the body for PATCH .../assignee. StaffID must
// reference a profile with role staff.
type AssignStaffRequest struct {
	StaffID string `json:"staffId" binding:"required"`
}

// CreateStaffRequest is the body for POST /admin/staff. Password rules are
// checked before any call to the identity provider.
type CreateStaffRequest struct {
	DisplayName     string `json:"displayName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// CreateContactRequest is the body for the public POST /contact.
type CreateContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Service string `json:"service,omitempty"`
	Message string `json:"message" binding:"required"`
}
