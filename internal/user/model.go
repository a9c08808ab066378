package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a profile in the system. Credentials and sessions live
// with the external identity provider; this row mirrors what the app
// needs for display and invite resolution.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
