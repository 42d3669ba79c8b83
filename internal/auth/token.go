// Package auth holds the credential codec, the session token service and
// the ownership guard.
package auth

import (
	"errors"
	"fmt"
	"time"

	"blog/internal/apperrors"

	"github.com/dgrijalva/jwt-go"
)

var (
	// ErrTokenMalformed is returned for tokens with a bad structure, signature or algorithm.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenExpired is returned once the token's expiry has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrSubjectMissing is returned when a correctly signed token carries no subject.
	ErrSubjectMissing = errors.New("token subject missing")
)

// Claims are the signed session claims: {sub, iat, exp}.
type Claims struct {
	jwt.StandardClaims
}

// TokenService issues and validates signed, time-bound session tokens.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	parser *jwt.Parser
}

// NewTokenService creates a token service. The algorithm must be one of the
// HMAC family (HS256, HS384, HS512).
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, apperrors.Configuration("token signing secret is required")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, apperrors.Configuration(fmt.Sprintf("unsupported token signing algorithm %q", algorithm))
	}
	if ttl <= 0 {
		return nil, apperrors.Configuration("token ttl must be positive")
	}
	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		// Expiry is checked against the caller's clock in Validate.
		parser: &jwt.Parser{
			ValidMethods:         []string{method.Alg()},
			SkipClaimsValidation: true,
		},
	}, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue returns a token for subject that expires at now+ttl.
func (s *TokenService) Issue(subject string, now time.Time) (string, error) {
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Validate verifies tokenString at time now and returns its subject.
func (s *TokenService) Validate(tokenString string, now time.Time) (string, error) {
	claims := &Claims{}
	token, err := s.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if claims.ExpiresAt == 0 {
		return "", fmt.Errorf("%w: missing exp claim", ErrTokenMalformed)
	}
	if now.After(time.Unix(claims.ExpiresAt, 0)) {
		return "", ErrTokenExpired
	}
	if claims.Subject == "" {
		return "", ErrSubjectMissing
	}
	return claims.Subject, nil
}
