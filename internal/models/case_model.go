package models

import "time"

// CaseStatus is the workflow label carried by every case.
type CaseStatus string

const (
	StatusSubmitted    CaseStatus = "submitted"
	StatusReviewing    CaseStatus = "reviewing"
	StatusActionNeeded CaseStatus = "action_needed"
	StatusFiling       CaseStatus = "filing"
	StatusCompleted    CaseStatus = "completed"
	// StatusRejected is terminal and sits outside the ordered progression.
	StatusRejected CaseStatus = "rejected"
)

// ServiceType identifies which service the client is requesting.
type ServiceType string

const (
	ServiceIndividualTax ServiceType = "individual_tax"
	ServiceSelfEmployed  ServiceType = "self_employed"
	ServiceBusinessTax   ServiceType = "business_tax"
	ServiceITIN          ServiceType = "itin"
	ServiceAmendedReturn ServiceType = "amended_return"
	ServiceBookkeeping   ServiceType = "bookkeeping"
	ServiceIncorporation ServiceType = "incorporation"
)

// Valid reports whether s is one of the offered service types.
func (s ServiceType) Valid() bool {
	switch s {
	case ServiceIndividualTax, ServiceSelfEmployed, ServiceBusinessTax,
		ServiceITIN, ServiceAmendedReturn, ServiceBookkeeping, ServiceIncorporation:
		return true
	}
	return false
}

// TaxCase is a client's service request. UserID is set once at creation and
// never changes; AssignedStaffID is a revocable, reassignable staff link.
// Cases are never deleted.
type TaxCase struct {
	ID                string      `json:"id" firestore:"-"` // document ID
	UserID            string      `json:"userId" firestore:"userId"`
	UserEmail         string      `json:"userEmail" firestore:"userEmail"`
	UserName          string      `json:"userName" firestore:"userName"`
	ServiceType       ServiceType `json:"serviceType" firestore:"serviceType"`
	TaxYear           string      `json:"taxYear" firestore:"taxYear"`
	Status            CaseStatus  `json:"status" firestore:"status"`
	AssignedStaffID   string      `json:"assignedStaffId,omitempty" firestore:"assignedStaffId,omitempty"`
	AssignedStaffName string      `json:"assignedStaffName,omitempty" firestore:"assignedStaffName,omitempty"`
	Notes             string      `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedAt         time.Time   `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt         time.Time   `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
