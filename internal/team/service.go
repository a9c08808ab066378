package team

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/hamadsh/billsplit/pkg/apperr"
)

// Common errors
var (
	ErrTeamNotFound   = apperr.NotFound("team not found")
	ErrInviteNotFound = apperr.NotFound("invite not found")
	ErrMemberNotFound = apperr.NotFound("member not found")
	ErrNotCreator     = apperr.Forbidden("only the team creator can manage members")
	ErrInvitePending  = apperr.Validation("invite already pending for this email")
	ErrInviteHandled  = apperr.Validation("invite already handled")
	ErrAlreadyMember  = apperr.Validation("user is already a member of this team")
)

// Service handles team business logic
type Service struct {
	repo *Repository
}

// NewService creates a new team service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a team and enrolls the creator as its first member
// in one transaction
func (s *Service) Create(ctx context.Context, creatorID uuid.UUID, req *CreateTeamRequest) (*Team, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperr.Validation("name is required")
	}

	t, err := s.repo.CreateTeam(ctx, req.Name, creatorID)
	if err != nil {
		return nil, err
	}

	slog.Info("team created", "team_id", t.ID, "creator_id", creatorID)

	return t, nil
}

// ListForUser retrieves all teams the user is an active member of
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Team, error) {
	return s.repo.ListForUser(ctx, userID)
}

// Details retrieves a team with its full membership, removed members
// included so historical bills keep their participants
func (s *Service) Details(ctx context.Context, teamID uuid.UUID) (*Team, []*Member, error) {
	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, ErrTeamNotFound
	}

	members, err := s.repo.GetMembers(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}

	return t, members, nil
}

// Invite records a pending invitation for the email. Only the team
// creator may invite, and at most one pending invite per (team, email)
// pair is allowed.
func (s *Service) Invite(ctx context.Context, teamID uuid.UUID, actorID uuid.UUID, req *InviteRequest) (*Invite, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, apperr.Validation("email is required")
	}

	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTeamNotFound
	}
	if t.CreatedBy != actorID {
		return nil, ErrNotCreator
	}

	pending, err := s.repo.HasPendingInvite(ctx, teamID, email)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrInvitePending
	}

	invite, err := s.repo.CreateInvite(ctx, teamID, email, actorID)
	if err != nil {
		return nil, err
	}

	slog.Info("invite sent", "team_id", teamID, "email", email)

	return invite, nil
}

// ListInvites retrieves the pending invites addressed to an email
func (s *Service) ListInvites(ctx context.Context, email string) ([]*Invite, error) {
	if strings.TrimSpace(email) == "" {
		return nil, apperr.Validation("email is required")
	}
	return s.repo.ListPendingInvites(ctx, strings.ToLower(email))
}

// Respond accepts or rejects a pending invite. An already-answered invite
// is rejected; acceptance enrolls the user in the team atomically with
// the invite update.
func (s *Service) Respond(ctx context.Context, inviteID, userID uuid.UUID, accept bool) (*Invite, error) {
	invite, err := s.repo.GetInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, ErrInviteNotFound
	}
	if invite.Accepted != nil {
		return nil, ErrInviteHandled
	}

	updated, err := s.repo.RespondInvite(ctx, inviteID, invite.TeamID, userID, accept)
	if err != nil {
		return nil, err
	}

	slog.Info("invite answered", "invite_id", inviteID, "accepted", accept)

	return updated, nil
}

// AddMember enrolls a user directly. Only the team creator may add.
func (s *Service) AddMember(ctx context.Context, teamID, actorID uuid.UUID, req *AddMemberRequest) (*Member, error) {
	if req.UserID == uuid.Nil {
		return nil, apperr.Validation("user_id is required")
	}

	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTeamNotFound
	}
	if t.CreatedBy != actorID {
		return nil, ErrNotCreator
	}

	active, err := s.repo.IsActiveMember(ctx, teamID, req.UserID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrAlreadyMember
	}

	return s.repo.AddMember(ctx, teamID, req.UserID)
}

// RemoveMember soft-removes a membership and marks the member's splits in
// the team's bills removed, all in one transaction. Historical rows are
// kept for display. Returns the IDs of the affected splits.
func (s *Service) RemoveMember(ctx context.Context, teamID, userID, actorID uuid.UUID) ([]uuid.UUID, error) {
	t, err := s.repo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTeamNotFound
	}
	if t.CreatedBy != actorID {
		return nil, ErrNotCreator
	}

	affected, removed, err := s.repo.RemoveMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrMemberNotFound
	}

	slog.Info("member removed",
		"team_id", teamID,
		"user_id", userID,
		"affected_splits", len(affected),
	)

	return affected, nil
}
