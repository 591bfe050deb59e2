package db

import "errors"

// ErrNotFound is returned when a document is not found in Firestore.
// Shared across repositories so services can classify with errors.Is.
var ErrNotFound = errors.New("document not found")
