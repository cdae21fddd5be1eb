package domain

import "time"

// Role orders account privilege levels. Higher values carry strictly more
// privilege.
type Role int16

const (
	RoleVisitor Role = 0
	RoleWriter  Role = 1
	RoleAdmin   Role = 2
)

// String returns the lowercase role name.
func (r Role) String() string {
	switch r {
	case RoleWriter:
		return "writer"
	case RoleAdmin:
		return "admin"
	default:
		return "visitor"
	}
}

// User is the persisted account record. Email is the external identity:
// every lookup and authorization check keys on it, never on ID.
type User struct {
	ID             int64
	NickName       string
	Email          string
	HashedPassword string
	IsActive       bool
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser carries the fields required to create an account. Password is
// plaintext here and is hashed before anything touches storage.
type NewUser struct {
	Email    string
	NickName string
	Password string
	IsActive bool
	Role     Role
}

// UserPatch is a partial update. A nil field means "leave unchanged"; a
// non-nil Password is re-hashed and stored, never persisted as plaintext.
type UserPatch struct {
	Email    *string
	NickName *string
	Password *string
	IsActive *bool
	Role     *Role
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.NickName == nil && p.Password == nil &&
		p.IsActive == nil && p.Role == nil
}
