// Package events publishes case activity for downstream consumers (the
// notification worker the portal UI only hinted at). Publishing is
// best-effort: a failed publish is logged by the caller and never blocks
// the originating write.
package events

import "time"

// Event types carried on the case event queue.
const (
	TypeCaseCreated      = "case_created"
	TypeStatusChanged    = "status_changed"
	TypeStaffAssigned    = "staff_assigned"
	TypeDocumentUploaded = "document_uploaded"
)

// CaseEvent is the wire payload published per case mutation.
type CaseEvent struct {
	Type       string    `json:"type"`
	CaseID     string    `json:"caseId"`
	ActorUID   string    `json:"actorUid,omitempty"`
	ActorRole  string    `json:"actorRole,omitempty"`
	Status     string    `json:"status,omitempty"`
	StaffID    string    `json:"staffId,omitempty"`
	Category   string    `json:"category,omitempty"`
	FileName   string    `json:"fileName,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher defines the interface for the case event channel.
type Publisher interface {
	Publish(event CaseEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(CaseEvent) error { return nil }
func (NopPublisher) Close() error            { return nil }
