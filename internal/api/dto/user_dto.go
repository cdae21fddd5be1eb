package dto

import "github.com/spec-kit/account-service/internal/domain"

// UserCreateRequest payload for creating an account. IsActive and Role
// default to true and visitor when omitted.
type UserCreateRequest struct {
	Email    string       `json:"email"`
	NickName string       `json:"nick_name"`
	Password string       `json:"password"`
	IsActive *bool        `json:"is_active"`
	Role     *domain.Role `json:"role"`
}

// ToNewUser applies defaults and converts to the domain create input.
func (r UserCreateRequest) ToNewUser() domain.NewUser {
	out := domain.NewUser{
		Email:    r.Email,
		NickName: r.NickName,
		Password: r.Password,
		IsActive: true,
		Role:     domain.RoleVisitor,
	}
	if r.IsActive != nil {
		out.IsActive = *r.IsActive
	}
	if r.Role != nil {
		out.Role = *r.Role
	}
	return out
}

// UserUpdateRequest is the partial-update payload. Absent fields are left
// untouched; JSON null and absence are both "do not touch".
type UserUpdateRequest struct {
	Email    *string      `json:"email"`
	NickName *string      `json:"nick_name"`
	Password *string      `json:"password"`
	IsActive *bool        `json:"is_active"`
	Role     *domain.Role `json:"role"`
}

// ToPatch converts to the domain patch.
func (r UserUpdateRequest) ToPatch() domain.UserPatch {
	return domain.UserPatch{
		Email:    r.Email,
		NickName: r.NickName,
		Password: r.Password,
		IsActive: r.IsActive,
		Role:     r.Role,
	}
}

// UserResponse is the API shape of an account. The password hash never
// leaves the service.
type UserResponse struct {
	ID       int64       `json:"id"`
	Email    string      `json:"email"`
	NickName string      `json:"nick_name"`
	IsActive bool        `json:"is_active"`
	Role     domain.Role `json:"role"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		NickName: user.NickName,
		IsActive: user.IsActive,
		Role:     user.Role,
	}
}

// NewUserResponses maps a list of domain users.
func NewUserResponses(users []*domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, NewUserResponse(user))
	}
	return out
}
