package users

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Gateway is the slice of the API client the service needs.
type Gateway interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

// CreatePayload registers a new account. Admin only; a secretary may
// create teacher and student accounts.
type CreatePayload struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=ADMIN SECRETARY TEACHER STUDENT"`
}

// UpdatePayload edits an account. Role is deliberately absent: the
// observed backend contract never accepts a role change.
type UpdatePayload struct {
	Name     string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
}

// ChangePasswordPayload rotates the caller's own password.
type ChangePasswordPayload struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// Service exposes the user endpoints of the backend.
type Service struct {
	gateway  Gateway
	validate *validator.Validate
}

// NewService builds a Service over the gateway.
func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway, validate: validator.New()}
}

// List returns every account visible to the caller.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := s.gateway.Get(ctx, "/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Me returns the caller's own profile.
func (s *Service) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.gateway.Get(ctx, "/users/me", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMe edits the caller's own profile.
func (s *Service) UpdateMe(ctx context.Context, payload UpdatePayload) (*User, error) {
	if err := s.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("users: invalid profile: %w", err)
	}
	var out User
	if err := s.gateway.Patch(ctx, "/users/me", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChangeMyPassword rotates the caller's password.
func (s *Service) ChangeMyPassword(ctx context.Context, payload ChangePasswordPayload) error {
	if err := s.validate.Struct(payload); err != nil {
		return fmt.Errorf("users: invalid password change: %w", err)
	}
	return s.gateway.Put(ctx, "/users/me/password", payload, nil)
}

// Create registers a new account.
func (s *Service) Create(ctx context.Context, payload CreatePayload) (*User, error) {
	if err := s.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("users: invalid account: %w", err)
	}
	var out User
	if err := s.gateway.Post(ctx, "/users", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one account by ID.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	var out User
	if err := s.gateway.Get(ctx, "/users/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update edits one account by ID.
func (s *Service) Update(ctx context.Context, id string, payload UpdatePayload) (*User, error) {
	if err := s.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("users: invalid account: %w", err)
	}
	var out User
	if err := s.gateway.Patch(ctx, "/users/"+id, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes one account by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.gateway.Delete(ctx, "/users/"+id)
}
