package domain

import (
	"errors"
	"time"
)

// MaxAvatarBytes is the upper bound for an uploaded avatar image.
const MaxAvatarBytes = 1_000_000

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already in use")

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password so a caller cannot tell the two apart.
var ErrInvalidCredentials = errors.New("unable to login")

var ErrInvalidToken = errors.New("invalid token")
var ErrTooManyAttempts = errors.New("too many login attempts")

// User models an account holder. The password is only ever stored as a
// bcrypt hash. Tokens is the set of bearer tokens currently accepted for
// this user: a token removed from the set is revoked even though its
// signature still verifies.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int64     `json:"age"`
	Tokens       []string  `json:"-"`
	Avatar       []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasToken reports whether token is still in the user's active set.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}
