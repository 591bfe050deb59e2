package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"taxportal-backend/internal/models"
)

const documentsSubcollection = "documents"

// firestoreDocumentRepository implements the DocumentRepository interface
// against the `cases/{caseId}/documents` sub-collection. The ledger is
// append-only: the interface exposes no update or delete.
type firestoreDocumentRepository struct {
	client *firestore.Client
}

// NewFirestoreDocumentRepository creates a new instance of firestoreDocumentRepository.
func NewFirestoreDocumentRepository(client *firestore.Client) DocumentRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for DocumentRepository.")
	}
	return &firestoreDocumentRepository{client: client}
}

// Create appends one document record under the case. The record is only
// written after the blob upload finished and its download URL is known, so
// a failed upload leaves no ledger entry.
func (r *firestoreDocumentRepository) Create(ctx context.Context, caseID string, doc *models.CaseDocument) (string, error) {
	if caseID == "" {
		return "", errors.New("caseID cannot be empty for Create operation")
	}
	docRef := r.client.Collection(casesCollection).Doc(caseID).Collection(documentsSubcollection).NewDoc()
	doc.ID = docRef.ID

	_, err := docRef.Create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create document record on case '%s': %w", caseID, err)
	}
	return docRef.ID, nil
}

// ListByCase retrieves the document ledger for a case, newest first.
func (r *firestoreDocumentRepository) ListByCase(ctx context.Context, caseID string) ([]*models.CaseDocument, error) {
	if caseID == "" {
		return nil, errors.New("caseID cannot be empty for ListByCase operation")
	}
	iter := r.client.Collection(casesCollection).Doc(caseID).Collection(documentsSubcollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var docs []*models.CaseDocument
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate documents for case '%s': %w", caseID, err)
		}

		var d models.CaseDocument
		if err := snap.DataTo(&d); err != nil {
			log.Printf("Error decoding document data (ID: %s, case: %s): %v. Skipping.", snap.Ref.ID, caseID, err)
			continue
		}
		d.ID = snap.Ref.ID
		docs = append(docs, &d)
	}
	return docs, nil
}
