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

const contactCollection = "contact_submissions"

// firestoreContactRepository implements the ContactRepository interface using Firestore.
type firestoreContactRepository struct {
	client *firestore.Client
}

// NewFirestoreContactRepository creates a new instance of firestoreContactRepository.
func NewFirestoreContactRepository(client *firestore.Client) ContactRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ContactRepository.")
	}
	return &firestoreContactRepository{client: client}
}

// Create adds a new contact submission with an auto-generated ID.
func (r *firestoreContactRepository) Create(ctx context.Context, msg *models.ContactMessage) (string, error) {
	docRef := r.client.Collection(contactCollection).NewDoc()
	msg.ID = docRef.ID

	_, err := docRef.Create(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to create contact submission: %w", err)
	}
	return docRef.ID, nil
}

// List retrieves all contact submissions, newest first.
func (r *firestoreContactRepository) List(ctx context.Context) ([]*models.ContactMessage, error) {
	iter := r.client.Collection(contactCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var msgs []*models.ContactMessage
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate contact submissions: %w", err)
		}

		var m models.ContactMessage
		if err := snap.DataTo(&m); err != nil {
			log.Printf("Error decoding contact submission (ID: %s): %v. Skipping.", snap.Ref.ID, err)
			continue
		}
		m.ID = snap.Ref.ID
		if m.Status == "" {
			m.Status = models.ContactNew // records written before the status field existed
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

// MarkRead patches the status field to read.
func (r *firestoreContactRepository) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("id cannot be empty for MarkRead operation")
	}
	_, err := r.client.Collection(contactCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(models.ContactRead)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("contact submission '%s' not found: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to mark contact submission '%s' as read: %w", id, err)
	}
	return nil
}

// Delete removes a contact submission. The only hard delete in the system.
func (r *firestoreContactRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("id cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(contactCollection).Doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("contact submission '%s' not found for deletion: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete contact submission '%s': %w", id, err)
	}
	return nil
}
