package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a set of users sharing bills
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// Member represents a user's membership in a team. Removal is soft:
// the row stays for historical display with the flag and timestamp set.
type Member struct {
	TeamID    uuid.UUID  `json:"team_id"`
	UserID    uuid.UUID  `json:"user_id"`
	JoinedAt  time.Time  `json:"joined_at"`
	Removed   bool       `json:"removed"`
	RemovedAt *time.Time `json:"removed_at,omitempty"`

	// Populated via JOIN
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Invite represents a pending, accepted, or rejected team invitation.
// Accepted is nil while the invite is pending.
type Invite struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	Email     string    `json:"email"`
	InvitedBy uuid.UUID `json:"invited_by"`
	Accepted  *bool     `json:"accepted"`
	CreatedAt time.Time `json:"created_at"`

	// Populated via JOIN
	TeamName string `json:"team_name,omitempty"`
}
