package models

import "time"

// ContactStatus tracks how far an admin has worked a submission.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactArchived ContactStatus = "archived"
)

// ContactMessage is an anonymous submission from the public contact form,
// reviewed only by admins. The service field is free text (the form offers
// labels beyond the tax service types).
type ContactMessage struct {
	ID        string        `json:"id" firestore:"-"` // document ID
	Name      string        `json:"name" firestore:"name"`
	Email     string        `json:"email" firestore:"email"`
	Phone     string        `json:"phone,omitempty" firestore:"phone,omitempty"`
	Service   string        `json:"service,omitempty" firestore:"service,omitempty"`
	Message   string        `json:"message" firestore:"message"`
	Status    ContactStatus `json:"status" firestore:"status"`
	CreatedAt time.Time     `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
