package ports

// TokenManager signs and verifies bearer tokens binding a token string to a
// user id. Tokens carry no expiry; revocation happens through the per-user
// token set checked by the auth middleware.
type TokenManager interface {
	// Issue produces a signed token encoding the user id.
	Issue(userID string) (string, error)
	// Verify returns the encoded user id, or domain.ErrInvalidToken when the
	// signature does not match or the payload cannot be decoded.
	Verify(token string) (string, error)
}
