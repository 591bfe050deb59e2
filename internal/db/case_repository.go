package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taxportal-backend/internal/models"
)

const casesCollection = "cases"

// firestoreCaseRepository implements the CaseRepository interface using Firestore.
type firestoreCaseRepository struct {
	client *firestore.Client
}

// NewFirestoreCaseRepository creates a new instance of firestoreCaseRepository.
func NewFirestoreCaseRepository(client *firestore.Client) CaseRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for CaseRepository.")
	}
	return &firestoreCaseRepository{client: client}
}

// Create adds a new case document with an auto-generated ID and sets
// taxCase.ID before the write. CreatedAt/UpdatedAt are handled by
// serverTimestamp tags on the model.
func (r *firestoreCaseRepository) Create(ctx context.Context, taxCase *models.TaxCase) (string, error) {
	docRef := r.client.Collection(casesCollection).NewDoc()
	taxCase.ID = docRef.ID

	_, err := docRef.Create(ctx, taxCase)
	if err != nil {
		return "", fmt.Errorf("failed to create case: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a case document by its ID.
func (r *firestoreCaseRepository) GetByID(ctx context.Context, caseID string) (*models.TaxCase, error) {
	if caseID == "" {
		return nil, errors.New("caseID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(casesCollection).Doc(caseID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("case with ID '%s' not found: %w", caseID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get case with ID '%s': %w", caseID, err)
	}

	var taxCase models.TaxCase
	if err := docSnap.DataTo(&taxCase); err != nil {
		return nil, fmt.Errorf("failed to decode case data for ID '%s': %w", caseID, err)
	}
	taxCase.ID = docSnap.Ref.ID

	return &taxCase, nil
}

// ListByUser retrieves all cases owned by the given client, newest first.
func (r *firestoreCaseRepository) ListByUser(ctx context.Context, userID string) ([]*models.TaxCase, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUser operation")
	}
	query := r.client.Collection(casesCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query)
}

// ListByAssignee retrieves all cases assigned to the given staff member,
// newest first.
func (r *firestoreCaseRepository) ListByAssignee(ctx context.Context, staffID string) ([]*models.TaxCase, error) {
	if staffID == "" {
		return nil, errors.New("staffID cannot be empty for ListByAssignee operation")
	}
	query := r.client.Collection(casesCollection).
		Where("assignedStaffId", "==", staffID).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query)
}

// ListAll retrieves every case unfiltered, newest first. Admin view only.
func (r *firestoreCaseRepository) ListAll(ctx context.Context) ([]*models.TaxCase, error) {
	query := r.client.Collection(casesCollection).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query)
}

// UpdateStatus patches status and updatedAt as one atomic document write.
// No other fields are touched; the live subscriptions pick up the change.
func (r *firestoreCaseRepository) UpdateStatus(ctx context.Context, caseID string, caseStatus models.CaseStatus) error {
	if caseID == "" {
		return errors.New("caseID cannot be empty for UpdateStatus operation")
	}
	_, err := r.client.Collection(casesCollection).Doc(caseID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(caseStatus)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("case with ID '%s' not found for status update: %w", caseID, ErrNotFound)
		}
		return fmt.Errorf("failed to update status for case '%s': %w", caseID, err)
	}
	return nil
}

// UpdateAssignment patches the staff assignment pair. Last write wins under
// concurrent admin edits; there is no transaction around the staff lookup
// that preceded this call.
func (r *firestoreCaseRepository) UpdateAssignment(ctx context.Context, caseID, staffID, staffName string) error {
	if caseID == "" {
		return errors.New("caseID cannot be empty for UpdateAssignment operation")
	}
	_, err := r.client.Collection(casesCollection).Doc(caseID).Update(ctx, []firestore.Update{
		{Path: "assignedStaffId", Value: staffID},
		{Path: "assignedStaffName", Value: staffName},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("case with ID '%s' not found for assignment: %w", caseID, ErrNotFound)
		}
		return fmt.Errorf("failed to assign staff on case '%s': %w", caseID, err)
	}
	return nil
}

func (r *firestoreCaseRepository) collect(ctx context.Context, query firestore.Query) ([]*models.TaxCase, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var cases []*models.TaxCase
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate cases: %w", err)
		}

		var taxCase models.TaxCase
		if err := doc.DataTo(&taxCase); err != nil {
			log.Printf("Error decoding case data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		taxCase.ID = doc.Ref.ID
		cases = append(cases, &taxCase)
	}
	return cases, nil
}
