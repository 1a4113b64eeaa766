package models

import "github.com/golang-jwt/jwt/v5"

// IdentityClaims represents the JWT claims issued by the identity provider.
// The subject claim is the opaque owner identity every folder and file row
// is scoped to.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	Role        string `json:"role"` // "authenticated" or "anon"
	SessionID   string `json:"session_id"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// OwnerID returns the owner identity from the JWT subject claim.
func (c *IdentityClaims) OwnerID() string {
	return c.Subject
}
