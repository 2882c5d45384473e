package ports

import (
	"context"

	"github.com/taskhive/task-manager-api/internal/core/domain"
)

// RegisterInput carries a signup request. All fields arrive pre-validated
// and pre-normalised (trimmed, email lowercased) from the transport layer.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int64
}

// UpdateUserInput carries a partial profile update. Nil fields are left
// untouched; a non-nil Password triggers a re-hash.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int64
}

// UserService defines the user lifecycle use cases.
type UserService interface {
	// Register creates the account, enqueues the welcome email and issues
	// the first bearer token.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Login verifies credentials and appends a fresh token to the user's
	// active set. Unknown email and wrong password both return
	// domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Logout revokes exactly the presented token; other sessions stay valid.
	Logout(ctx context.Context, userID, token string) error
	// LogoutAll revokes every token of the user.
	LogoutAll(ctx context.Context, userID string) error

	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User, input UpdateUserInput) (*domain.User, error)
	// Delete removes the account, cascade-deletes its tasks and enqueues the
	// cancelation email.
	Delete(ctx context.Context, user *domain.User) error

	UpdateAvatar(ctx context.Context, userID string, image []byte) error
	RemoveAvatar(ctx context.Context, userID string) error
	// GetAvatar returns the stored avatar bytes, or domain.ErrUserNotFound
	// when the user does not exist or has no avatar.
	GetAvatar(ctx context.Context, userID string) ([]byte, error)
}
