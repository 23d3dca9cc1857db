package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"qrlinks/internal/config"
	"qrlinks/internal/domain"
)

// TokenService issues and verifies signed, time-limited bearer tokens.
// Tokens are stateless: there is no revocation list, logout only clears
// the client-held cookie. An exfiltrated token stays valid until expiry.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService builds the service from validated configuration.
// The algorithm name has already been checked by config.Validate.
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret: []byte(cfg.SecretKey),
		method: jwt.GetSigningMethod(cfg.Algorithm),
		ttl:    cfg.TokenTTL,
	}
}

// Issue encodes the identity and an expiry into a signed token.
func (s *TokenService) Issue(identity string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   identity,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// Verify validates signature and expiry and returns the embedded
// identity. Every failure mode collapses into domain.ErrInvalidToken;
// callers get no more detail than "invalid".
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil || !token.Valid {
		return "", domain.ErrInvalidToken
	}

	return claims.Subject, nil
}

// TTL returns the configured token lifetime, used for cookie max-age.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
