package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-service/internal/domain"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return NewAuthService(testConfig(), repo), repo
}

func TestAuthenticateSuccess(t *testing.T) {
	svc, repo := newTestAuthService(t)
	seedUser(t, repo, "real@x.com", "right-pw", domain.RoleVisitor, true)

	user, err := svc.Authenticate(context.Background(), "real@x.com", "right-pw")
	require.NoError(t, err)
	assert.Equal(t, "real@x.com", user.Email)
}

func TestAuthenticateFailureIsGeneric(t *testing.T) {
	svc, repo := newTestAuthService(t)
	seedUser(t, repo, "real@x.com", "right-pw", domain.RoleVisitor, true)

	_, unknownErr := svc.Authenticate(context.Background(), "nobody@x.com", "anything")
	_, wrongPassErr := svc.Authenticate(context.Background(), "real@x.com", "wrongpass")

	var unknownDE, wrongPassDE *apperrors.DomainError
	require.ErrorAs(t, unknownErr, &unknownDE)
	require.ErrorAs(t, wrongPassErr, &wrongPassDE)

	// Unknown email and wrong password are indistinguishable.
	assert.Equal(t, "AUTHENTICATION_FAILED", unknownDE.Code)
	assert.Equal(t, unknownDE.Code, wrongPassDE.Code)
	assert.Equal(t, unknownDE.Message, wrongPassDE.Message)
}

func TestLoginIssuesTokenForEmailSubject(t *testing.T) {
	svc, repo := newTestAuthService(t)
	seedUser(t, repo, "real@x.com", "right-pw", domain.RoleVisitor, true)

	token, _, err := svc.Login(context.Background(), "real@x.com", "right-pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "real@x.com", subject)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, repo := newTestAuthService(t)
	seedUser(t, repo, "real@x.com", "right-pw", domain.RoleVisitor, true)

	_, _, err := svc.Login(context.Background(), "real@x.com", "bad")
	assertDomainErrCode(t, err, "AUTHENTICATION_FAILED")
}
