package team

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository handles team, membership, and invite data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new team repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateTeam inserts the team and the creator's membership in one
// transaction
func (r *Repository) CreateTeam(ctx context.Context, name string, creatorID uuid.UUID) (*Team, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO teams (name, created_by)
		VALUES ($1, $2)
		RETURNING id, name, created_by, created_at
	`

	t := &Team{}
	err = tx.QueryRowContext(ctx, query, name, creatorID).Scan(
		&t.ID,
		&t.Name,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	memberQuery := `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`
	if _, err := tx.ExecContext(ctx, memberQuery, t.ID, creatorID); err != nil {
		return nil, fmt.Errorf("failed to add creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit team: %w", err)
	}

	return t, nil
}

// GetByID retrieves a team by its ID, nil when it does not exist
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `SELECT id, name, created_by, created_at FROM teams WHERE id = $1`

	t := &Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return t, nil
}

// ListForUser retrieves all teams the user is an active member of,
// newest first
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Team, error) {
	query := `
		SELECT t.id, t.name, t.created_by, t.created_at
		FROM teams t
		JOIN team_members tm ON t.id = tm.team_id
		WHERE tm.user_id = $1 AND tm.is_removed = FALSE
		ORDER BY t.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		t := &Team{}
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}

	return teams, rows.Err()
}

// GetMembers retrieves every membership for a team, removed rows included
func (r *Repository) GetMembers(ctx context.Context, teamID uuid.UUID) ([]*Member, error) {
	query := `
		SELECT tm.team_id, tm.user_id, tm.joined_at, tm.is_removed, tm.removed_at, u.name, u.email
		FROM team_members tm
		JOIN users u ON tm.user_id = u.id
		WHERE tm.team_id = $1
		ORDER BY tm.joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		var removedAt sql.NullTime
		if err := rows.Scan(
			&m.TeamID,
			&m.UserID,
			&m.JoinedAt,
			&m.Removed,
			&removedAt,
			&m.Name,
			&m.Email,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if removedAt.Valid {
			t := removedAt.Time
			m.RemovedAt = &t
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// IsActiveMember reports whether the user is a non-removed member of the team
func (r *Repository) IsActiveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM team_members
			WHERE team_id = $1 AND user_id = $2 AND is_removed = FALSE
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return exists, nil
}

// AddMember inserts an active membership row
func (r *Repository) AddMember(ctx context.Context, teamID, userID uuid.UUID) (*Member, error) {
	query := `
		INSERT INTO team_members (team_id, user_id)
		VALUES ($1, $2)
		RETURNING team_id, user_id, joined_at, is_removed
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(
		&m.TeamID,
		&m.UserID,
		&m.JoinedAt,
		&m.Removed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	return m, nil
}

// RemoveMember soft-removes the membership and marks the member's splits
// in the team's bills removed, inside one transaction. Returns the IDs of
// the affected splits and whether an active membership existed.
func (r *Repository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) ([]uuid.UUID, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	memberQuery := `
		UPDATE team_members
		SET is_removed = TRUE, removed_at = $3
		WHERE team_id = $1 AND user_id = $2 AND is_removed = FALSE
	`

	result, err := tx.ExecContext(ctx, memberQuery, teamID, userID, time.Now().UTC())
	if err != nil {
		return nil, false, fmt.Errorf("failed to remove member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, false, nil
	}

	splitsQuery := `
		UPDATE splits
		SET is_removed = TRUE
		WHERE user_id = $2
		  AND bill_id IN (SELECT id FROM bills WHERE team_id = $1)
		RETURNING id
	`

	rows, err := tx.QueryContext(ctx, splitsQuery, teamID, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to remove splits: %w", err)
	}
	defer rows.Close()

	var splitIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, false, fmt.Errorf("failed to scan split id: %w", err)
		}
		splitIDs = append(splitIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to read split ids: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit removal: %w", err)
	}

	return splitIDs, true, nil
}

// HasPendingInvite reports whether a pending invite exists for the
// (team, email) pair
func (r *Repository) HasPendingInvite(ctx context.Context, teamID uuid.UUID, email string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM team_invites
			WHERE team_id = $1 AND email = $2 AND accepted IS NULL
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, teamID, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check invites: %w", err)
	}

	return exists, nil
}

// CreateInvite inserts a pending invite
func (r *Repository) CreateInvite(ctx context.Context, teamID uuid.UUID, email string, inviterID uuid.UUID) (*Invite, error) {
	query := `
		INSERT INTO team_invites (team_id, email, invited_by)
		VALUES ($1, $2, $3)
		RETURNING id, team_id, email, invited_by, accepted, created_at
	`

	invite := &Invite{}
	var accepted sql.NullBool
	err := r.db.QueryRowContext(ctx, query, teamID, email, inviterID).Scan(
		&invite.ID,
		&invite.TeamID,
		&invite.Email,
		&invite.InvitedBy,
		&accepted,
		&invite.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	setAccepted(invite, accepted)

	return invite, nil
}

// GetInvite retrieves an invite by its ID, nil when it does not exist
func (r *Repository) GetInvite(ctx context.Context, id uuid.UUID) (*Invite, error) {
	query := `
		SELECT i.id, i.team_id, i.email, i.invited_by, i.accepted, i.created_at, t.name
		FROM team_invites i
		JOIN teams t ON i.team_id = t.id
		WHERE i.id = $1
	`

	invite := &Invite{}
	var accepted sql.NullBool
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&invite.ID,
		&invite.TeamID,
		&invite.Email,
		&invite.InvitedBy,
		&accepted,
		&invite.CreatedAt,
		&invite.TeamName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	setAccepted(invite, accepted)

	return invite, nil
}

// ListPendingInvites retrieves the pending invites addressed to an email
func (r *Repository) ListPendingInvites(ctx context.Context, email string) ([]*Invite, error) {
	query := `
		SELECT i.id, i.team_id, i.email, i.invited_by, i.accepted, i.created_at, t.name
		FROM team_invites i
		JOIN teams t ON i.team_id = t.id
		WHERE i.email = $1 AND i.accepted IS NULL
		ORDER BY i.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	var invites []*Invite
	for rows.Next() {
		invite := &Invite{}
		var accepted sql.NullBool
		if err := rows.Scan(
			&invite.ID,
			&invite.TeamID,
			&invite.Email,
			&invite.InvitedBy,
			&accepted,
			&invite.CreatedAt,
			&invite.TeamName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		setAccepted(invite, accepted)
		invites = append(invites, invite)
	}

	return invites, rows.Err()
}

// RespondInvite records the answer and, on acceptance, enrolls the user
// in the team atomically
func (r *Repository) RespondInvite(ctx context.Context, inviteID, teamID, userID uuid.UUID, accept bool) (*Invite, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE team_invites
		SET accepted = $2
		WHERE id = $1
		RETURNING id, team_id, email, invited_by, accepted, created_at
	`

	invite := &Invite{}
	var accepted sql.NullBool
	err = tx.QueryRowContext(ctx, query, inviteID, accept).Scan(
		&invite.ID,
		&invite.TeamID,
		&invite.Email,
		&invite.InvitedBy,
		&accepted,
		&invite.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update invite: %w", err)
	}
	setAccepted(invite, accepted)

	if accept {
		memberQuery := `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, memberQuery, teamID, userID); err != nil {
			return nil, fmt.Errorf("failed to add member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invite response: %w", err)
	}

	return invite, nil
}

func setAccepted(invite *Invite, accepted sql.NullBool) {
	if accepted.Valid {
		v := accepted.Bool
		invite.Accepted = &v
	}
}
