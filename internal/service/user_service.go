package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
	apperrors "github.com/spec-kit/account-service/pkg/util"
)

// UserService coordinates authorized account management. Every operation
// takes the authenticated caller, runs the access policy first, and only
// then touches the directory, so a denied caller learns nothing about
// whether the target exists.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	policy     auth.Policy
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		users:      users,
		dispatcher: dispatcher,
		policy:     auth.Policy{},
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// List returns accounts with offset pagination. Admin only.
func (s *UserService) List(ctx context.Context, caller *domain.User, skip, limit int) ([]*domain.User, error) {
	if !s.policy.CanListUsers(caller) {
		return nil, apperrors.NewForbidden("admin privileges required")
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	return s.users.List(ctx, skip, limit)
}

// Get returns the account for email. Admin or self.
func (s *UserService) Get(ctx context.Context, caller *domain.User, email string) (*domain.User, error) {
	if !s.policy.CanReadUser(caller, email) {
		return nil, apperrors.NewForbidden("access denied")
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, err
	}
	return user, nil
}

// Create adds a new account. Admin only; the plaintext password is hashed
// before the record is handed to storage.
func (s *UserService) Create(ctx context.Context, caller *domain.User, input domain.NewUser) (*domain.User, error) {
	if !s.policy.CanCreateUser(caller) {
		return nil, apperrors.NewForbidden("admin privileges required")
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		NickName:       input.NickName,
		Email:          input.Email,
		HashedPassword: hash,
		IsActive:       input.IsActive,
		Role:           input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserCreated, user.Email, caller, events.UserCreatedPayload{
		NickName: user.NickName,
		Role:     user.Role,
		IsActive: user.IsActive,
	})
	return user, nil
}

// Update applies a partial update to the account for email. Admin or
// self. Only fields present in the patch change; a supplied password is
// re-hashed, never stored as given.
func (s *UserService) Update(ctx context.Context, caller *domain.User, email string, patch domain.UserPatch) (*domain.User, error) {
	if !s.policy.CanUpdateUser(caller, email) {
		return nil, apperrors.NewForbidden("access denied")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, err
	}

	changed, err := s.applyPatch(user, patch)
	if err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		return nil, err
	}

	s.publish(ctx, events.EventUserUpdated, user.Email, caller, events.UserUpdatedPayload{
		ChangedFields: changed,
		EmailChanged:  patch.Email != nil && *patch.Email != email,
	})
	if patch.Password != nil {
		s.publish(ctx, events.EventPasswordChanged, user.Email, caller, nil)
	}
	return user, nil
}

// Delete removes the account for email. Admin only, and never the admin's
// own account: the self-delete guard fires before the existence lookup.
func (s *UserService) Delete(ctx context.Context, caller *domain.User, email string) error {
	if !s.policy.CanDeleteUser(caller) {
		return apperrors.NewForbidden("admin privileges required")
	}
	if caller.Email == email {
		return apperrors.NewSelfDeleteForbidden()
	}

	if err := s.users.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return err
	}

	s.publish(ctx, events.EventUserDeleted, email, caller, nil)
	return nil
}

// applyPatch mutates user in place and returns the names of the fields
// that were set.
func (s *UserService) applyPatch(user *domain.User, patch domain.UserPatch) ([]string, error) {
	changed := make([]string, 0, 5)

	if patch.Email != nil {
		user.Email = *patch.Email
		changed = append(changed, "email")
	}
	if patch.NickName != nil {
		user.NickName = *patch.NickName
		changed = append(changed, "nick_name")
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hash
		changed = append(changed, "password")
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
		changed = append(changed, "is_active")
	}
	if patch.Role != nil {
		user.Role = *patch.Role
		changed = append(changed, "role")
	}
	return changed, nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, email string, caller *domain.User, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Email:     email,
		Actor:     events.Actor{Email: caller.Email, Role: caller.Role},
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
