package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskhive/task-manager-api/internal/api/metrics"
	"github.com/taskhive/task-manager-api/internal/core/domain"
	"github.com/taskhive/task-manager-api/internal/core/ports"
	"github.com/taskhive/task-manager-api/internal/imaging"
)

// avatarMaxDimension is the target length of an avatar's longest side.
const avatarMaxDimension = 350

// UserHandler handles all /users endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register handles POST /users.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.normalize()
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

// Login handles POST /users/login.
//
// @Summary      Login with email and password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, token, err := h.service.Login(c.Request().Context(), email, req.Password)
	if err != nil {
		result := "failure"
		if errors.Is(err, domain.ErrTooManyAttempts) {
			result = "throttled"
		}
		metrics.LoginAttemptsTotal.WithLabelValues(result).Inc()
		return err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

// Logout handles POST /users/logout: it revokes only the token the request
// authenticated with.
func (h *UserHandler) Logout(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	token, err := ctxToken(c)
	if err != nil {
		return err
	}

	if err := h.service.Logout(c.Request().Context(), user.ID, token); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// LogoutAll handles POST /users/logoutAll: it revokes every session.
func (h *UserHandler) LogoutAll(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.LogoutAll(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// List handles GET /users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe handles PATCH /users/me. The body must be JSON and may only
// contain name, email, password and age; any other key rejects the whole
// update.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if !isJSONRequest(c) {
		return c.NoContent(http.StatusBadRequest)
	}

	var req updateUserRequest
	ok, err := decodePartial(c, allowedUserUpdates, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid updates"})
	}

	if err := normalizeUserUpdate(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.service.Update(c.Request().Context(), user, ports.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// normalizeUserUpdate trims the supplied fields and rejects values that
// would empty a required field. The validator's omitempty tags skip empty
// strings, so those guards live here.
func normalizeUserUpdate(req *updateUserRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "name is required")
		}
		req.Name = &name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "email must be a valid email")
		}
		req.Email = &email
	}
	if req.Password != nil {
		password := strings.TrimSpace(*req.Password)
		if len(password) < 7 {
			return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 7 characters")
		}
		req.Password = &password
	}
	if req.Age != nil && *req.Age < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "age must be at least 0")
	}
	return nil
}

// DeleteMe handles DELETE /users/me: the account is removed, its tasks are
// cascade-deleted and the cancelation email is enqueued. The deleted profile
// is returned.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UploadAvatar handles POST /users/me/avatar: a single multipart image file
// under the "avatar" field, at most 1MB, jpg/jpeg/png. The image is scaled
// so its longest side is 350px, re-encoded as PNG and stored. Upload
// validation failures return 404 with an error envelope, matching the
// long-standing client contract.
func (h *UserHandler) UploadAvatar(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "please upload an image"})
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "please upload an image file (jpg, jpeg or png)"})
	}
	if fh.Size > domain.MaxAvatarBytes {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "image must be smaller than 1MB"})
	}

	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, domain.MaxAvatarBytes+1))
	if err != nil {
		return err
	}
	if len(data) > domain.MaxAvatarBytes {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "image must be smaller than 1MB"})
	}

	timer := prometheus.NewTimer(metrics.AvatarResizeDuration)
	resized, err := imaging.ResizePNG(data, avatarMaxDimension)
	timer.ObserveDuration()
	if err != nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	}

	if err := h.service.UpdateAvatar(c.Request().Context(), user.ID, resized); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.RemoveAvatar(c.Request().Context(), user.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// GetAvatar handles GET /users/:id/avatar, serving the stored bytes
// directly. Missing user and missing avatar are both a bare 404.
func (h *UserHandler) GetAvatar(c echo.Context) error {
	avatar, err := h.service.GetAvatar(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	return c.Blob(http.StatusOK, "image/jpg", avatar)
}
