package dochub

import (
	"errors"
	"fmt"

	"collabdocs/backend/internal/auth"
	"collabdocs/backend/internal/storage"
)

// ErrUnauthorized is returned when a join credential is malformed, expired,
// carries an invalid signature, or names a user that no longer exists.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is a verified participant identity.
type Identity struct {
	UserID      string
	DisplayName string
}

// IdentityGate verifies join credentials and resolves display names before a
// participant is admitted to a room.
type IdentityGate struct {
	secret    []byte
	directory storage.Storage
}

func NewIdentityGate(secret []byte, directory storage.Storage) *IdentityGate {
	return &IdentityGate{secret: secret, directory: directory}
}

// Authenticate validates the token and resolves the embedded subject through
// the user directory.
func (g *IdentityGate) Authenticate(token string) (*Identity, error) {
	claims, err := auth.ValidateToken(token, g.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := g.directory.GetUserByID(claims.UserID)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: user %s no longer exists", ErrUnauthorized, claims.UserID)
	}
	if err != nil {
		return nil, err
	}

	return &Identity{UserID: user.ID, DisplayName: user.Username}, nil
}
