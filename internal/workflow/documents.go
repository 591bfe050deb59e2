package workflow

import "taxportal-backend/internal/models"

// ClientOwned reports whether a document falls on the client side of the
// visibility partition. Records written before categories existed carry no
// category and default to client-owned; everything else is a staff-side
// document. The predicate is total and the two sets are disjoint.
func ClientOwned(d *models.CaseDocument) bool {
	return d.Category == models.CategoryClientUpload || d.Category == ""
}

// PartitionDocuments splits docs into the two sets the client view renders:
// the client's own uploads and the staff-released set.
func PartitionDocuments(docs []*models.CaseDocument) (clientDocs, staffDocs []*models.CaseDocument) {
	for _, d := range docs {
		if ClientOwned(d) {
			clientDocs = append(clientDocs, d)
		} else {
			staffDocs = append(staffDocs, d)
		}
	}
	return clientDocs, staffDocs
}

// AllowedCategories returns the upload categories the role may write.
// Clients are always tagged client_upload; staff choose from the staff-side
// picker; admins get the full picker plus admin_upload.
func AllowedCategories(r models.Role) []models.DocumentCategory {
	switch r {
	case models.RoleClient:
		return []models.DocumentCategory{models.CategoryClientUpload}
	case models.RoleStaff:
		return []models.DocumentCategory{
			models.CategoryStaffUpload,
			models.CategoryFinalReturn,
			models.CategorySupportingDoc,
		}
	case models.RoleAdmin:
		return []models.DocumentCategory{
			models.CategoryStaffUpload,
			models.CategoryFinalReturn,
			models.CategorySupportingDoc,
			models.CategoryAdminUpload,
		}
	}
	return nil
}

// MayUploadCategory reports whether the role may write the given category.
func MayUploadCategory(r models.Role, c models.DocumentCategory) bool {
	for _, allowed := range AllowedCategories(r) {
		if c == allowed {
			return true
		}
	}
	return false
}

// DefaultCategory is the picker default per role: clients have no choice,
// staff default to staff_upload, admins to admin_upload.
func DefaultCategory(r models.Role) models.DocumentCategory {
	switch r {
	case models.RoleStaff:
		return models.CategoryStaffUpload
	case models.RoleAdmin:
		return models.CategoryAdminUpload
	}
	return models.CategoryClientUpload
}
