package auth

import "drivebox/internal/domain/models"

// TokenVerifier defines the interface for JWT token verification.
// This abstraction keeps the middleware agnostic to how tokens are
// actually validated.
type TokenVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.IdentityClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
