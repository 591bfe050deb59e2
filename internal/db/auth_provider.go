package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"firebase.google.com/go/v4/auth"
)

// ErrEmailExists is returned when the identity provider already has an
// account for the requested email. Surfaced distinctly so the staff
// creation flow can report it apart from generic failures.
var ErrEmailExists = errors.New("email already in use")

// AuthProvider wraps the identity provider operations the portal needs
// beyond token verification. Creating an account through the Admin SDK has
// no effect on any signed-in session.
type AuthProvider interface {
	CreateUser(ctx context.Context, email, password, displayName string) (uid string, err error)
}

type firebaseAuthProvider struct {
	client *auth.Client
}

// NewFirebaseAuthProvider creates an AuthProvider backed by Firebase Auth.
func NewFirebaseAuthProvider(client *auth.Client) AuthProvider {
	if client == nil {
		log.Fatal("Firebase Auth client is not initialized for AuthProvider.")
	}
	return &firebaseAuthProvider{client: client}
}

// CreateUser provisions a new email/password identity and returns its UID.
func (p *firebaseAuthProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", fmt.Errorf("account for '%s': %w", email, ErrEmailExists)
		}
		return "", fmt.Errorf("failed to create auth user for '%s': %w", email, err)
	}
	return record.UID, nil
}
