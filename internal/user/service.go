package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hamadsh/billsplit/pkg/apperr"
)

// Common errors
var (
	ErrUserNotFound      = apperr.NotFound("user not found")
	ErrEmailAlreadyInUse = apperr.Validation("email already in use")
)

// Service handles profile business logic
type Service struct {
	repo *Repository
}

// NewService creates a new user service with repository dependency injected
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a profile for an identity-provider user
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if req.ID == uuid.Nil {
		return nil, apperr.Validation("id is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name is required")
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	return s.repo.Create(ctx, req.ID, req.Name, email)
}

// GetByID retrieves a profile by its ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetByEmail retrieves a profile by email, used to resolve invites
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Update modifies a profile's display fields
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	return s.repo.Update(ctx, id, req)
}
