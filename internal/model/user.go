package model

import "time"

// User represents a registered account
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Hash          *string    `json:"-"` // Never expose password hash
	Firstname     *string    `json:"firstname,omitempty"`
	Lastname      *string    `json:"lastname,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	CreatedOn     time.Time  `json:"created_on"`
	UpdatedOn     time.Time  `json:"updated_on"`
	LoginOn       *time.Time `json:"login_on,omitempty"`
}

// TokenClaims represents extracted JWT claims
type TokenClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// RefreshToken represents a stored refresh token. Only the SHA-256 hash of
// the opaque token is persisted. Tokens are single-use: rotation revokes the
// presented token, and reuse of a revoked one revokes every token the user
// holds.
type RefreshToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the token is past its expiry
func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}
