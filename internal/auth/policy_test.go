package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/account-service/internal/domain"
)

func user(email string, role domain.Role) *domain.User {
	return &domain.User{Email: email, Role: role, IsActive: true}
}

func TestPolicyListUsers(t *testing.T) {
	var p Policy
	assert.True(t, p.CanListUsers(user("root@x.com", domain.RoleAdmin)))
	assert.False(t, p.CanListUsers(user("a@x.com", domain.RoleVisitor)))
	assert.False(t, p.CanListUsers(user("w@x.com", domain.RoleWriter)))
}

func TestPolicyReadUser(t *testing.T) {
	var p Policy

	tests := []struct {
		name   string
		caller *domain.User
		target string
		want   bool
	}{
		{"visitor reads self", user("a@x.com", domain.RoleVisitor), "a@x.com", true},
		{"visitor reads other", user("a@x.com", domain.RoleVisitor), "b@x.com", false},
		{"writer reads other", user("w@x.com", domain.RoleWriter), "b@x.com", false},
		{"admin reads anyone", user("root@x.com", domain.RoleAdmin), "b@x.com", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanReadUser(tt.caller, tt.target))
		})
	}
}

func TestPolicyUpdateUser(t *testing.T) {
	var p Policy
	assert.True(t, p.CanUpdateUser(user("a@x.com", domain.RoleVisitor), "a@x.com"))
	assert.False(t, p.CanUpdateUser(user("a@x.com", domain.RoleVisitor), "b@x.com"))
	assert.True(t, p.CanUpdateUser(user("root@x.com", domain.RoleAdmin), "b@x.com"))
}

func TestPolicyCreateAndDelete(t *testing.T) {
	var p Policy
	assert.True(t, p.CanCreateUser(user("root@x.com", domain.RoleAdmin)))
	assert.False(t, p.CanCreateUser(user("w@x.com", domain.RoleWriter)))
	assert.True(t, p.CanDeleteUser(user("root@x.com", domain.RoleAdmin)))
	assert.False(t, p.CanDeleteUser(user("a@x.com", domain.RoleVisitor)))
}
