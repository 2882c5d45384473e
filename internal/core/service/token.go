package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/task-manager-api/internal/core/domain"
)

// TokenManager issues and verifies HS256 bearer tokens. The payload carries
// the user id under the "_id" claim and nothing else; tokens never expire on
// their own and are revoked by removing them from the user's token set.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Issue produces a signed token encoding the user id.
func (m *TokenManager) Issue(userID string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id": userID,
		"iat": time.Now().Unix(),
	})
	return t.SignedString(m.secret)
}

// Verify decodes the token and returns the user id it was issued for.
func (m *TokenManager) Verify(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}

	id, _ := claims["_id"].(string)
	if id == "" {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}
