package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Sentinel validation failures. ErrTokenExpired is returned only for a
// well-signed token past its expiry; every other defect (bad signature,
// malformed input, missing subject) is ErrTokenInvalid.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// TokenManager issues and validates HS256-signed access tokens. The
// signing secret is fixed at construction and shared by all requests.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. ttlMinutes is the default token
// lifetime applied by GenerateToken.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 1440
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the token payload: subject email and expiry, nothing
// else. No issuer, no audience, no revocation id.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a token for the subject email using the default TTL.
func (tm *TokenManager) GenerateToken(subject string) (string, time.Time, error) {
	return tm.GenerateTokenWithTTL(subject, tm.ttl)
}

// GenerateTokenWithTTL signs a token expiring at now+ttl. Expiry is
// computed on the UTC wall clock.
func (tm *TokenManager) GenerateTokenWithTTL(subject string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().UTC().Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature and expiry and returns the subject
// email. A token without a subject claim fails as invalid, not as an
// unknown user.
func (tm *TokenManager) ParseToken(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
