package handler

import (
	"strings"

	"github.com/taskhive/task-manager-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=7,ne=password"`
	Age      int64  `json:"age"      validate:"gte=0"`
}

// normalize trims all string fields and lowercases the email, mirroring the
// schema-level trim/lowercase of the stored model.
func (r *registerRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Password = strings.TrimSpace(r.Password)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is returned by signup and login: the public profile plus the
// freshly issued bearer token.
type authResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// updateUserRequest carries a partial profile update. Pointer fields
// distinguish "absent" from "set to zero value".
type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=7,ne=password"`
	Age      *int64  `json:"age"      validate:"omitempty,gte=0"`
}

// allowedUserUpdates is the whitelist of updatable profile fields; any other
// key in the request body rejects the whole update.
var allowedUserUpdates = map[string]struct{}{
	"name":     {},
	"email":    {},
	"password": {},
	"age":      {},
}
