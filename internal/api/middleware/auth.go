package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-manager-api/internal/core/ports"
)

// Context keys populated by Auth for downstream handlers.
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// Auth resolves the bearer token to an authenticated user. The signature
// check alone is not enough: the literal token string must still be present
// in the user's active set, which is what makes logout and logout-all
// effective. On success the resolved user and the exact token string are
// placed in the request context; the handler needs the literal token to
// support single-session logout.
func Auth(tokens ports.TokenManager, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "please authenticate")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "please authenticate")
			}
			token := parts[1]

			userID, err := tokens.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "please authenticate")
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil || !user.HasToken(token) {
				return echo.NewHTTPError(http.StatusUnauthorized, "please authenticate")
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextTokenKey, token)

			return next(c)
		}
	}
}
