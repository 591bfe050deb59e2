package core

import "errors"

// Sentinel errors returned by the service layer, mapped to HTTP statuses in
// the api package.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCaseNotFound       = errors.New("case not found")
	ErrMessageNotFound    = errors.New("contact submission not found")
	ErrForbiddenAccess    = errors.New("access to this resource is forbidden")
	ErrInvalidStatus      = errors.New("status is not in the case status vocabulary")
	ErrInvalidServiceType = errors.New("unknown service type")
	ErrInvalidCategory    = errors.New("unknown document category")
	ErrCategoryNotAllowed = errors.New("role may not upload this document category")
	ErrUploadClosed       = errors.New("client uploads are closed on a completed case")
	ErrNotStaff           = errors.New("assignee must be a staff profile")
	ErrStaffNotFound      = errors.New("staff profile not found")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailInUse         = errors.New("this email address is already in use by another account")
)
