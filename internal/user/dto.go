package user

import "github.com/google/uuid"

// CreateUserRequest represents the request body for creating a profile
type CreateUserRequest struct {
	ID    uuid.UUID `json:"id"` // assigned by the identity provider
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// UpdateUserRequest represents the request body for updating a profile
type UpdateUserRequest struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UserResponse represents the response for a single profile
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt string    `json:"created_at"`
}

// ToResponse converts a User model to a UserResponse DTO
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
