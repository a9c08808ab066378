package team

import "github.com/google/uuid"

// CreateTeamRequest represents the request to create a new team
type CreateTeamRequest struct {
	Name string `json:"name"`
}

// InviteRequest represents the request to invite someone by email
type InviteRequest struct {
	Email string `json:"email"`
}

// RespondInviteRequest accepts or rejects a pending invite
type RespondInviteRequest struct {
	Accept *bool `json:"accept"`
}

// AddMemberRequest represents the request to add a member directly
type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

// TeamResponse represents the response for a team
type TeamResponse struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	CreatedBy uuid.UUID         `json:"created_by"`
	CreatedAt string            `json:"created_at"`
	Members   []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents a member in a team response
type MemberResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	JoinedAt  string    `json:"joined_at"`
	Removed   bool      `json:"removed"`
	RemovedAt *string   `json:"removed_at,omitempty"`
}

// InviteResponse represents the response for an invite
type InviteResponse struct {
	ID        uuid.UUID `json:"id"`
	TeamID    uuid.UUID `json:"team_id"`
	TeamName  string    `json:"team_name,omitempty"`
	Email     string    `json:"email"`
	InvitedBy uuid.UUID `json:"invited_by"`
	Accepted  *bool     `json:"accepted"`
	CreatedAt string    `json:"created_at"`
}

// RemovedMemberResponse reports the splits affected by a member removal
type RemovedMemberResponse struct {
	UserID           uuid.UUID   `json:"user_id"`
	AffectedSplitIDs []uuid.UUID `json:"affected_split_ids"`
}

// ToResponse converts a Team model to a TeamResponse DTO
func (t *Team) ToResponse() *TeamResponse {
	return &TeamResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	resp := &MemberResponse{
		UserID:   m.UserID,
		Name:     m.Name,
		Email:    m.Email,
		JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z"),
		Removed:  m.Removed,
	}
	if m.RemovedAt != nil {
		formatted := m.RemovedAt.Format("2006-01-02T15:04:05Z")
		resp.RemovedAt = &formatted
	}
	return resp
}

// ToResponse converts an Invite model to an InviteResponse DTO
func (i *Invite) ToResponse() *InviteResponse {
	return &InviteResponse{
		ID:        i.ID,
		TeamID:    i.TeamID,
		TeamName:  i.TeamName,
		Email:     i.Email,
		InvitedBy: i.InvitedBy,
		Accepted:  i.Accepted,
		CreatedAt: i.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
