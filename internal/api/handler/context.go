package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-manager-api/internal/api/middleware"
	"github.com/taskhive/task-manager-api/internal/core/domain"
)

// ctxUser extracts the authenticated user injected by the Auth middleware.
// Its presence proves the middleware ran; a missing value on a protected
// route is a wiring bug surfaced as 401 rather than a panic.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.ContextUserKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "please authenticate")
	}
	return user, nil
}

// ctxToken extracts the literal bearer token the request authenticated with.
func ctxToken(c echo.Context) (string, error) {
	token, _ := c.Get(middleware.ContextTokenKey).(string)
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "please authenticate")
	}
	return token, nil
}
