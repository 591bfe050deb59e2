// Package workflow holds the case lifecycle rules: the ordered status
// vocabulary, who may move a case between statuses, and which document
// categories each role may write. Everything here is pure; persistence and
// transport live elsewhere.
package workflow

import (
	"errors"
	"fmt"

	"taxportal-backend/internal/models"
)

// OrderedStatuses is the progress-stepper sequence. StatusRejected is a
// valid terminal status but is not part of the ordered run.
var OrderedStatuses = []models.CaseStatus{
	models.StatusSubmitted,
	models.StatusReviewing,
	models.StatusActionNeeded,
	models.StatusFiling,
	models.StatusCompleted,
}

// ErrUnknownStatus is returned when a status value is outside the fixed
// vocabulary. The stored contract admits nothing else.
var ErrUnknownStatus = errors.New("unknown case status")

// ValidStatus reports whether s belongs to the status vocabulary,
// including the out-of-band rejected status.
func ValidStatus(s models.CaseStatus) bool {
	if s == models.StatusRejected {
		return true
	}
	for _, o := range OrderedStatuses {
		if s == o {
			return true
		}
	}
	return false
}

// ValidateTransition checks that both endpoints are in the vocabulary.
// Any valid status may move to any other valid status: the workflow is a
// flat label, not a guarded graph, and a guarded graph is deliberately not
// inferred here.
func ValidateTransition(from, to models.CaseStatus) error {
	if !ValidStatus(from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !ValidStatus(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	return nil
}

// StepIndex maps a status to its position on the progress stepper.
// Rejected cases pin to step 0, as does any value outside the ordered run.
func StepIndex(s models.CaseStatus) int {
	if s == models.StatusRejected {
		return 0
	}
	for i, o := range OrderedStatuses {
		if s == o {
			return i
		}
	}
	return 0
}

// ClientUploadOpen reports whether a client may still attach documents.
// Reaching completed closes the case for client uploads; no other status
// carries a side effect.
func ClientUploadOpen(s models.CaseStatus) bool {
	return s != models.StatusCompleted
}

// MayChangeStatus reports whether the actor may change status on the given
// case: admins on any case, staff only on cases assigned to them, clients
// never.
func MayChangeStatus(actor models.Role, actorUID string, c *models.TaxCase) bool {
	switch actor {
	case models.RoleAdmin:
		return true
	case models.RoleStaff:
		return c.AssignedStaffID != "" && c.AssignedStaffID == actorUID
	}
	return false
}

// MayViewCase reports whether the actor may read a case and its documents:
// clients their own cases, staff their assigned cases, admins everything.
func MayViewCase(actor models.Role, actorUID string, c *models.TaxCase) bool {
	switch actor {
	case models.RoleAdmin:
		return true
	case models.RoleStaff:
		return c.AssignedStaffID == actorUID
	case models.RoleClient:
		return c.UserID == actorUID
	}
	return false
}
