package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taxportal-backend/internal/models"
)

const usersCollection = "users"

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new profile document. The Firebase Auth UID is the document
// ID, so concurrent initialize calls for the same identity collide instead
// of duplicating.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.UserProfile) error {
	if user.UID == "" {
		return errors.New("user UID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.UID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user with UID '%s' already exists: %w", user.UID, err)
		}
		return fmt.Errorf("failed to create user with UID '%s': %w", user.UID, err)
	}
	return nil
}

// GetByID retrieves a profile document by Firebase Auth UID.
func (r *firestoreUserRepository) GetByID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with UID '%s' not found: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with UID '%s': %w", uid, err)
	}

	var user models.UserProfile
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for UID '%s': %w", uid, err)
	}
	user.UID = docSnap.Ref.ID

	return &user, nil
}

// SetRole patches the role field only. Used for the reserved-admin
// auto-promotion; no other profile mutation path exists.
func (r *firestoreUserRepository) SetRole(ctx context.Context, uid string, role models.Role) error {
	if uid == "" {
		return errors.New("uid cannot be empty for SetRole operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "role", Value: role},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user with UID '%s' not found for SetRole: %w", uid, ErrNotFound)
		}
		return fmt.Errorf("failed to set role for user '%s': %w", uid, err)
	}
	return nil
}

// List retrieves every profile, newest first.
func (r *firestoreUserRepository) List(ctx context.Context) ([]*models.UserProfile, error) {
	query := r.client.Collection(usersCollection).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query)
}

// ListByRole retrieves all profiles with the given role. Sorting happens in
// memory: a compound where+orderBy query would require a composite index the
// original data set never had.
func (r *firestoreUserRepository) ListByRole(ctx context.Context, role models.Role) ([]*models.UserProfile, error) {
	query := r.client.Collection(usersCollection).Where("role", "==", string(role))
	users, err := r.collect(ctx, query)
	if err != nil {
		return nil, err
	}
	sortProfilesNewestFirst(users)
	return users, nil
}

func (r *firestoreUserRepository) collect(ctx context.Context, query firestore.Query) ([]*models.UserProfile, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	var users []*models.UserProfile
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate users: %w", err)
		}

		var user models.UserProfile
		if err := doc.DataTo(&user); err != nil {
			log.Printf("Error decoding user data (UID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		user.UID = doc.Ref.ID
		users = append(users, &user)
	}
	return users, nil
}

func sortProfilesNewestFirst(users []*models.UserProfile) {
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
}
