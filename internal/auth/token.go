// Package auth issues and verifies the short-lived bearer tokens handed out
// at login.  Tokens are HS256 JWTs whose subject is the user id; verification
// is stateless, so a token stays valid for its full TTL (there is no
// revocation list).
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSecret is returned by NewTokenService for an empty secret.
	ErrMissingSecret = errors.New("token signing secret is empty")
	// ErrMissingToken is returned when no bearer credential was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers malformed tokens, bad signatures and unexpected
	// signing methods.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned once the expiry instant is not in the future.
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the payload of an access token.
type Claims struct {
	jwt.RegisteredClaims
}

// AccessToken is a signed token along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// TokenService signs and verifies access tokens with a symmetric secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns ErrMissingSecret when secret is empty, so a missing
// secret surfaces at startup rather than on the first login.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL reports how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for userID that expires ttl after now.
func (s *TokenService) Issue(userID string) (AccessToken, error) {
	if userID == "" {
		return AccessToken{}, ErrInvalidToken
	}
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// Verify checks the signature and expiry of raw and returns the user id it
// was issued for.
func (s *TokenService) Verify(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrMissingToken
	}
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// TokenFromHeader extracts the credential from an "Authorization: Bearer x"
// header value.
func TokenFromHeader(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}
	return parts[1], nil
}
