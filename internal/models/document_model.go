package models

import "time"

// DocumentCategory tags who a document belongs to and how client views
// render it. An absent category is treated as client-owned.
type DocumentCategory string

const (
	CategoryClientUpload  DocumentCategory = "client_upload"
	CategoryStaffUpload   DocumentCategory = "staff_upload"
	CategoryFinalReturn   DocumentCategory = "final_return"
	CategorySupportingDoc DocumentCategory = "supporting_doc"
	CategoryAdminUpload   DocumentCategory = "admin_upload"
)

// Valid reports whether c is a known category. The empty string is valid
// on read (legacy records) but not accepted on write.
func (c DocumentCategory) Valid() bool {
	switch c {
	case CategoryClientUpload, CategoryStaffUpload, CategoryFinalReturn,
		CategorySupportingDoc, CategoryAdminUpload:
		return true
	}
	return false
}

// CaseDocument is one uploaded file on a case. Records are immutable once
// written; replacing a file means appending a new record. The duplicated
// name/fileName and url/fileUrl pairs are the stored wire contract and both
// are written on every create.
type CaseDocument struct {
	ID         string           `json:"id" firestore:"-"` // document ID
	Name       string           `json:"name" firestore:"name"`
	FileName   string           `json:"fileName" firestore:"fileName"`
	URL        string           `json:"url" firestore:"url"`
	FileURL    string           `json:"fileUrl" firestore:"fileUrl"`
	Type       string           `json:"type" firestore:"type"`
	FileType   string           `json:"fileType" firestore:"fileType"`
	UploadedBy string           `json:"uploadedBy" firestore:"uploadedBy"` // role label, not a user reference
	Category   DocumentCategory `json:"category,omitempty" firestore:"category,omitempty"`
	CreatedAt  time.Time        `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
