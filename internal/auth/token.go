/**
 * @description
 * This file implements the session token service: a pure sign/verify pair over
 * HMAC-SHA256 JWTs carrying the operator's email and role. Tokens expire 8
 * hours after issuance, which aligns with a working day so sessions don't
 * linger overnight. There is no refresh flow and no revocation state; validity
 * is solely a function of signature and expiry.
 *
 * @dependencies
 * - errors, time: Standard Go libraries.
 * - github.com/golang-jwt/jwt/v5: JWT signing and verification.
 * - internal/domain: For the operator identity and role types.
 */

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/klopper/paydesk/internal/domain"
)

// SessionTTL is the absolute session lifetime from issuance.
const SessionTTL = 8 * time.Hour

var (
	// ErrSigningSecretMissing indicates the signing secret is not configured.
	// This is a configuration failure and must be caught at the point of use,
	// never allowed to crash the serving process.
	ErrSigningSecretMissing = errors.New("session signing secret is not configured")

	// ErrInvalidSessionToken covers every verification failure: bad signature,
	// malformed token, wrong algorithm, or past expiry. Verification is
	// all-or-nothing; callers get no partial validity.
	ErrInvalidSessionToken = errors.New("invalid session token")
)

// SessionClaims is the JWT payload for an operator session.
type SessionClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed session tokens.
type TokenService struct {
	secret []byte

	// now is swappable so tests can pin issuance and verification time.
	now func() time.Time
}

// NewTokenService creates a token service signing with the given secret.
// An empty secret is tolerated here; Issue and Verify report it as
// ErrSigningSecretMissing when actually used.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs a session token for the given identity, valid for SessionTTL.
func (s *TokenService) Issue(identity domain.Identity) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrSigningSecretMissing
	}

	now := s.now()
	claims := SessionClaims{
		Email: identity.Email,
		Role:  identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks the signature and expiry of a session token and returns the
// identity it carries. Any failure maps to ErrInvalidSessionToken.
func (s *TokenService) Verify(tokenString string) (domain.Identity, error) {
	if len(s.secret) == 0 {
		return domain.Identity{}, ErrSigningSecretMissing
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, ErrInvalidSessionToken
	}

	if claims.Email == "" || !claims.Role.Valid() {
		return domain.Identity{}, ErrInvalidSessionToken
	}

	return domain.Identity{Email: claims.Email, Role: claims.Role}, nil
}
