package auth

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, exp, err := tm.GenerateToken("alice@x.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(60*time.Minute), exp, 5*time.Second)

	subject, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", subject)
}

func TestParseTokenExpired(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, _, err := tm.GenerateTokenWithTTL("alice@x.com", -time.Second)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseTokenTamperedSignature(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	token, _, err := tm.GenerateToken("alice@x.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = tm.ParseToken(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("one-secret", 60)
	verifier := NewTokenManager("another-secret", 60)

	token, _, err := issuer.GenerateToken("alice@x.com")
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenMissingSubject(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseTokenMalformed(t *testing.T) {
	tm := NewTokenManager(testSecret, 60)

	for _, bad := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := tm.ParseToken(bad)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", bad)
	}
}

func TestNewTokenManagerDefaultTTL(t *testing.T) {
	tm := NewTokenManager(testSecret, 0)

	_, exp, err := tm.GenerateToken("alice@x.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(1440*time.Minute), exp, 5*time.Second)
}
