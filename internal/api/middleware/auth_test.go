package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-manager-api/internal/core/domain"
	"github.com/taskhive/task-manager-api/internal/core/service"
)

type stubUserRepo struct {
	user *domain.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.user == nil || r.user.ID != id {
		return nil, domain.ErrUserNotFound
	}
	return r.user, nil
}

func (r *stubUserRepo) Create(context.Context, *domain.User) (*domain.User, error) { return nil, nil }
func (r *stubUserRepo) FindByEmail(context.Context, string) (*domain.User, error)  { return nil, nil }
func (r *stubUserRepo) FindAll(context.Context) ([]*domain.User, error)            { return nil, nil }
func (r *stubUserRepo) Update(context.Context, *domain.User) error                 { return nil }
func (r *stubUserRepo) Delete(context.Context, string) error                       { return nil }
func (r *stubUserRepo) AppendToken(context.Context, string, string) error          { return nil }
func (r *stubUserRepo) RemoveToken(context.Context, string, string) error          { return nil }
func (r *stubUserRepo) ClearTokens(context.Context, string) error                  { return nil }
func (r *stubUserRepo) SetAvatar(context.Context, string, []byte) error            { return nil }
func (r *stubUserRepo) ClearAvatar(context.Context, string) error                  { return nil }

func runAuth(t *testing.T, repo *stubUserRepo, authHeader string) (*domain.User, string, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUser *domain.User
	var gotToken string
	next := func(c echo.Context) error {
		gotUser, _ = c.Get(ContextUserKey).(*domain.User)
		gotToken, _ = c.Get(ContextTokenKey).(string)
		return nil
	}

	tokens := service.NewTokenManager("secret")
	err := Auth(tokens, repo)(next)(c)
	return gotUser, gotToken, err
}

func mustUnauthorized(t *testing.T, err error) {
	t.Helper()
	httpErr, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", httpErr.Code)
	}
	if httpErr.Message != "please authenticate" {
		t.Fatalf("unexpected message: %v", httpErr.Message)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	token, err := service.NewTokenManager("secret").Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	repo := &stubUserRepo{user: &domain.User{ID: "u1", Tokens: []string{token}}}

	user, gotToken, err := runAuth(t, repo, "Bearer "+token)
	if err != nil {
		t.Fatalf("auth: %v", err)
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("expected user u1 in context, got %+v", user)
	}
	if gotToken != token {
		t.Fatalf("expected literal token in context")
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	_, _, err := runAuth(t, &stubUserRepo{}, "")
	mustUnauthorized(t, err)
}

func TestAuth_BadScheme(t *testing.T) {
	_, _, err := runAuth(t, &stubUserRepo{}, "Basic dXNlcjpwYXNz")
	mustUnauthorized(t, err)
}

func TestAuth_InvalidToken(t *testing.T) {
	_, _, err := runAuth(t, &stubUserRepo{}, "Bearer not-a-token")
	mustUnauthorized(t, err)
}

func TestAuth_RevokedToken(t *testing.T) {
	token, err := service.NewTokenManager("secret").Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// Signature is valid but the token is no longer in the active set.
	repo := &stubUserRepo{user: &domain.User{ID: "u1", Tokens: []string{}}}

	_, _, authErr := runAuth(t, repo, "Bearer "+token)
	mustUnauthorized(t, authErr)
}

func TestAuth_UnknownUser(t *testing.T) {
	token, err := service.NewTokenManager("secret").Issue("ghost")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	_, _, authErr := runAuth(t, &stubUserRepo{}, "Bearer "+token)
	mustUnauthorized(t, authErr)
}
