package ports

import (
	"context"

	"github.com/taskhive/task-manager-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
//
// Token-set mutations (AppendToken, RemoveToken, ClearTokens) must be atomic
// at the store level so concurrent logins and logouts on the same user never
// lose each other's writes.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailTaken when the email
	// unique index rejects the insert.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)

	// Update persists name, email, password hash and age. Returns
	// domain.ErrEmailTaken when the new email collides with another user.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error

	AppendToken(ctx context.Context, id, token string) error
	RemoveToken(ctx context.Context, id, token string) error
	ClearTokens(ctx context.Context, id string) error

	SetAvatar(ctx context.Context, id string, avatar []byte) error
	ClearAvatar(ctx context.Context, id string) error
}
