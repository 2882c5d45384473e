package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/task-manager-api/internal/core/domain"
	"github.com/taskhive/task-manager-api/internal/core/ports"
)

// --- Stubs ---

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Tokens = append([]string(nil), u.Tokens...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[created.ID] = created
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	stored, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	stored.Name = user.Name
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.Age = user.Age
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) AppendToken(_ context.Context, id, token string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Tokens = append(u.Tokens, token)
	return nil
}

func (r *stubUserRepo) RemoveToken(_ context.Context, id, token string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	kept := []string{}
	for _, t := range u.Tokens {
		if t != token {
			kept = append(kept, t)
		}
	}
	u.Tokens = kept
	return nil
}

func (r *stubUserRepo) ClearTokens(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Tokens = []string{}
	return nil
}

func (r *stubUserRepo) SetAvatar(_ context.Context, id string, avatar []byte) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Avatar = avatar
	return nil
}

func (r *stubUserRepo) ClearAvatar(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Avatar = nil
	return nil
}

type stubMailQueue struct {
	sent []ports.EmailMessage
}

func (q *stubMailQueue) Enqueue(msg ports.EmailMessage) {
	q.sent = append(q.sent, msg)
}

type stubLimiter struct {
	allow  bool
	resets []string
}

func (l *stubLimiter) Allow(_ context.Context, _ string) (bool, error) { return l.allow, nil }
func (l *stubLimiter) Reset(_ context.Context, email string) error {
	l.resets = append(l.resets, email)
	return nil
}

type userServiceFixture struct {
	svc     *UserService
	users   *stubUserRepo
	tasks   *stubTaskRepo
	mail    *stubMailQueue
	limiter *stubLimiter
}

func newUserServiceFixture() *userServiceFixture {
	f := &userServiceFixture{
		users:   newStubUserRepo(),
		tasks:   newStubTaskRepo(),
		mail:    &stubMailQueue{},
		limiter: &stubLimiter{allow: true},
	}
	f.svc = NewUserService(f.users, f.tasks, NewTokenManager("secret"), f.mail, f.limiter, zerolog.Nop())
	return f
}

func registerAlice(t *testing.T, f *userServiceFixture) (*domain.User, string) {
	t.Helper()
	user, token, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user, token
}

// --- Tests ---

func TestUserService_Register(t *testing.T) {
	f := newUserServiceFixture()
	user, token := registerAlice(t, f)

	if user.PasswordHash == "pass1234" {
		t.Fatalf("password stored as plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	stored, _ := f.users.FindByID(context.Background(), user.ID)
	if !stored.HasToken(token) {
		t.Fatalf("issued token not in the user's active set")
	}

	if len(f.mail.sent) != 1 || f.mail.sent[0].Template != "welcome" {
		t.Fatalf("expected one welcome email, got %+v", f.mail.sent)
	}
	if f.mail.sent[0].To != "alice@example.com" {
		t.Fatalf("welcome email sent to %s", f.mail.sent[0].To)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	f := newUserServiceFixture()
	registerAlice(t, f)

	_, _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Other",
		Email:    "alice@example.com",
		Password: "pass1234",
	})
	if err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Login(t *testing.T) {
	f := newUserServiceFixture()
	user, _ := registerAlice(t, f)

	loggedIn, token, err := f.svc.Login(context.Background(), "alice@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("unexpected user: %+v", loggedIn)
	}

	after, _ := f.users.FindByID(context.Background(), user.ID)
	if !after.HasToken(token) {
		t.Fatalf("login token not in the user's active set")
	}
	if len(after.Tokens) != 2 {
		t.Fatalf("expected two active sessions, got %d", len(after.Tokens))
	}

	if len(f.limiter.resets) != 1 {
		t.Fatalf("expected limiter reset after success")
	}
}

func TestUserService_Login_SameErrorForBothFailures(t *testing.T) {
	f := newUserServiceFixture()
	registerAlice(t, f)

	_, _, unknownErr := f.svc.Login(context.Background(), "ghost@example.com", "pass1234")
	_, _, wrongErr := f.svc.Login(context.Background(), "alice@example.com", "wrongpass")

	if unknownErr != domain.ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if wrongErr != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
}

func TestUserService_Login_Throttled(t *testing.T) {
	f := newUserServiceFixture()
	registerAlice(t, f)
	f.limiter.allow = false

	if _, _, err := f.svc.Login(context.Background(), "alice@example.com", "pass1234"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestUserService_Logout_RemovesOnlyPresentedToken(t *testing.T) {
	f := newUserServiceFixture()
	user, token := registerAlice(t, f)

	// Second session from another device.
	other := "other-session-token"
	if err := f.users.AppendToken(context.Background(), user.ID, other); err != nil {
		t.Fatalf("append token: %v", err)
	}

	if err := f.svc.Logout(context.Background(), user.ID, token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	after, _ := f.users.FindByID(context.Background(), user.ID)
	if after.HasToken(token) {
		t.Fatalf("presented token should be revoked")
	}
	if !after.HasToken(other) {
		t.Fatalf("other session should remain valid")
	}
}

func TestUserService_LogoutAll(t *testing.T) {
	f := newUserServiceFixture()
	user, _ := registerAlice(t, f)
	_, _, _ = f.svc.Login(context.Background(), "alice@example.com", "pass1234")

	if err := f.svc.LogoutAll(context.Background(), user.ID); err != nil {
		t.Fatalf("logout all: %v", err)
	}

	stored, _ := f.users.FindByID(context.Background(), user.ID)
	if len(stored.Tokens) != 0 {
		t.Fatalf("expected empty token set, got %v", stored.Tokens)
	}
}

func TestUserService_Update_RehashOnlyWhenPasswordChanges(t *testing.T) {
	f := newUserServiceFixture()
	user, _ := registerAlice(t, f)
	originalHash := user.PasswordHash

	name := "Alice B."
	updated, err := f.svc.Update(context.Background(), cloneUser(user), ports.UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PasswordHash != originalHash {
		t.Fatalf("hash must not change on unrelated updates")
	}
	if updated.Name != "Alice B." {
		t.Fatalf("name not applied: %s", updated.Name)
	}

	password := "newpass99"
	updated, err = f.svc.Update(context.Background(), updated, ports.UpdateUserInput{Password: &password})
	if err != nil {
		t.Fatalf("update password: %v", err)
	}
	if updated.PasswordHash == originalHash {
		t.Fatalf("hash must change when the password changes")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpass99")); err != nil {
		t.Fatalf("new hash does not match new password: %v", err)
	}
}

func TestUserService_Update_EmailTaken(t *testing.T) {
	f := newUserServiceFixture()
	user, _ := registerAlice(t, f)
	_, _, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "pass1234",
	})
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	email := "bob@example.com"
	if _, err := f.svc.Update(context.Background(), cloneUser(user), ports.UpdateUserInput{Email: &email}); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Delete_CascadesAndNotifies(t *testing.T) {
	f := newUserServiceFixture()
	user, _ := registerAlice(t, f)

	for i := 0; i < 3; i++ {
		f.tasks.add(&domain.Task{Description: fmt.Sprintf("task %d", i), Owner: user.ID})
	}
	f.tasks.add(&domain.Task{Description: "other", Owner: "someone_else"})

	if err := f.svc.Delete(context.Background(), user); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.users.FindByID(context.Background(), user.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected user gone, got %v", err)
	}
	remaining, _ := f.tasks.List(context.Background(), ports.TaskFilter{Owner: user.ID})
	if len(remaining) != 0 {
		t.Fatalf("expected cascade delete, %d tasks remain", len(remaining))
	}
	others, _ := f.tasks.List(context.Background(), ports.TaskFilter{Owner: "someone_else"})
	if len(others) != 1 {
		t.Fatalf("other owners' tasks must survive")
	}

	last := f.mail.sent[len(f.mail.sent)-1]
	if last.Template != "cancelation" || last.To != "alice@example.com" {
		t.Fatalf("expected cancelation email, got %+v", last)
	}
}

func TestUserService_GetAvatar(t *testing.T) {
	f := newUserServiceFixture()
	user, _ := registerAlice(t, f)

	if _, err := f.svc.GetAvatar(context.Background(), user.ID); err != domain.ErrUserNotFound {
		t.Fatalf("user without avatar: expected ErrUserNotFound, got %v", err)
	}

	if err := f.svc.UpdateAvatar(context.Background(), user.ID, []byte{1, 2, 3}); err != nil {
		t.Fatalf("update avatar: %v", err)
	}
	avatar, err := f.svc.GetAvatar(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get avatar: %v", err)
	}
	if len(avatar) != 3 {
		t.Fatalf("unexpected avatar bytes: %v", avatar)
	}

	if err := f.svc.RemoveAvatar(context.Background(), user.ID); err != nil {
		t.Fatalf("remove avatar: %v", err)
	}
	if _, err := f.svc.GetAvatar(context.Background(), user.ID); err != domain.ErrUserNotFound {
		t.Fatalf("cleared avatar: expected ErrUserNotFound, got %v", err)
	}
}
