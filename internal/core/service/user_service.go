package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/task-manager-api/internal/core/domain"
	"github.com/taskhive/task-manager-api/internal/core/ports"
)

// bcryptCost matches the work factor the original deployment used; existing
// password hashes verify against it.
const bcryptCost = 8

// UserService implements the user lifecycle: registration, credential
// verification, session (token) management, profile updates with
// hash-if-changed semantics, and account deletion with task cascade.
type UserService struct {
	users   ports.UserRepository
	tasks   ports.TaskRepository
	tokens  ports.TokenManager
	mail    ports.MailDispatcher
	limiter ports.LoginLimiter
	log     zerolog.Logger
}

func NewUserService(
	users ports.UserRepository,
	tasks ports.TaskRepository,
	tokens ports.TokenManager,
	mail ports.MailDispatcher,
	limiter ports.LoginLimiter,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		users:   users,
		tasks:   tasks,
		tokens:  tokens,
		mail:    mail,
		limiter: limiter,
		log:     log,
	}
}

func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	user, err := s.users.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Age:          input.Age,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, "", err
	}

	s.mail.Enqueue(welcomeEmail(user.Email, user.Name))

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	ok, err := s.limiter.Allow(ctx, email)
	if err != nil {
		// Limiter outage must not lock everybody out.
		s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
	} else if !ok {
		return nil, "", domain.ErrTooManyAttempts
	}

	user, err := s.findByCredentials(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	if err := s.limiter.Reset(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login limiter")
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, token, nil
}

// findByCredentials looks the user up by email and compares the password
// against the stored hash. Both failure branches return the same error so
// callers cannot distinguish an unknown email from a wrong password.
func (s *UserService) findByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// issueToken signs a fresh token and appends it to the user's active set.
// The append is atomic at the store level, so concurrent logins keep each
// other's tokens.
func (s *UserService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}
	if err := s.users.AppendToken(ctx, user.ID, token); err != nil {
		return "", err
	}
	user.Tokens = append(user.Tokens, token)
	return token, nil
}

// Logout removes exactly the presented token; the user's other sessions
// remain valid.
func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	return s.users.RemoveToken(ctx, userID, token)
}

// LogoutAll empties the user's token set.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	return s.users.ClearTokens(ctx, userID)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

// Update applies the non-nil fields of input to user and persists the
// result. The password is re-hashed only when a new plaintext is supplied;
// unrelated updates never touch the stored hash.
func (s *UserService) Update(ctx context.Context, user *domain.User, input ports.UpdateUserInput) (*domain.User, error) {
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Age != nil {
		user.Age = *input.Age
	}
	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account, cascade-deletes every task it owns and
// enqueues the cancelation email.
func (s *UserService) Delete(ctx context.Context, user *domain.User) error {
	removed, err := s.tasks.DeleteByOwner(ctx, user.ID)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.mail.Enqueue(cancelationEmail(user.Email, user.Name))

	s.log.Info().
		Str("user_id", user.ID).
		Int64("tasks_removed", removed).
		Msg("user deleted")
	return nil
}

func (s *UserService) UpdateAvatar(ctx context.Context, userID string, image []byte) error {
	return s.users.SetAvatar(ctx, userID, image)
}

func (s *UserService) RemoveAvatar(ctx context.Context, userID string) error {
	return s.users.ClearAvatar(ctx, userID)
}

// GetAvatar returns the stored avatar bytes. A user without an avatar is
// indistinguishable from a missing user.
func (s *UserService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return user.Avatar, nil
}
