// Package auth provides JWT token generation and validation plus the
// HTTP middleware that enforces them.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. User registers via POST /api/auth/register (password is bcrypt-hashed)
// 2. User logs in via POST /api/auth/login with username/password
// 3. Server issues a signed JWT carrying the user's ID, username, and role
// 4. On subsequent API calls, the client sends "Authorization: Bearer <token>";
//    middleware validates it and sets the identity in the request context
//
// WHY JWT?
// JWT (JSON Web Token) is stateless — the server doesn't need to store
// session data. All the information needed (userID, role, expiry) is inside
// the signed token. The signature ensures nobody can tamper with it without
// the secret key, and verification needs no database lookup. The flip side:
// there is no server-side revocation — a token stays valid until it expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skarim/autotrack/internal/model"
)

const issuer = "autotrack"

// TokenTTL is how long an issued token stays valid. After expiry the
// client must log in again.
const TokenTTL = time.Hour

// Identity is the decoded content of a valid token: who the caller is
// and what role they hold. It is what the middleware attaches to the
// request context and what ownership checks compare against.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens.
// The same secret must be used for both operations — keep it safe.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload. It embeds jwt.RegisteredClaims (Subject,
// ExpiresAt, IssuedAt, Issuer) and adds the username and role so that
// role gating needs no user lookup per request.
type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs a new JWT for the given user.
//
// Signing algorithm: HS256 (HMAC-SHA256) — symmetric, same key for
// signing and verifying. Token lifetime is TokenTTL (1 hour).
func (s *TokenService) Generate(user *model.User) (string, error) {
	return s.GenerateWithDuration(user, TokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(user *model.User, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the Identity it
// encodes.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid (wasn't tampered with)
//   - Token is not expired (ExpiresAt is in the future)
//   - Issuer matches ours (prevents tokens minted by other apps)
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// Expired and tampered tokens both come back as a plain error — the
// caller treats them identically, so response timing reveals nothing.
func (s *TokenService) Validate(tokenStr string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("auth: token has no subject")
	}

	return &Identity{
		UserID:   c.Subject,
		Username: c.Username,
		Role:     c.Role,
	}, nil
}
