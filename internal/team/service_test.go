package team

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadsh/billsplit/pkg/apperr"
)

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewService(NewRepository(db)), mock
}

func teamRows(id, creator uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "created_by", "created_at"}).
		AddRow(id.String(), "Trip", creator.String(), time.Now())
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creator becomes the first member in the same transaction", func(t *testing.T) {
		svc, mock := newTestService(t)
		creatorID := uuid.New()
		teamID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO teams")).
			WithArgs("Trip", creatorID).
			WillReturnRows(teamRows(teamID, creatorID))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO team_members")).
			WithArgs(teamID, creatorID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		created, err := svc.Create(ctx, creatorID, &CreateTeamRequest{Name: "Trip"})
		require.NoError(t, err)
		assert.Equal(t, teamID, created.ID)
		assert.Equal(t, creatorID, created.CreatedBy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		svc, mock := newTestService(t)

		_, err := svc.Create(ctx, uuid.New(), &CreateTeamRequest{Name: "   "})
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceInvite(t *testing.T) {
	ctx := context.Background()

	t.Run("only the creator may invite", func(t *testing.T) {
		svc, mock := newTestService(t)
		teamID := uuid.New()
		creatorID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams WHERE id")).
			WithArgs(teamID).
			WillReturnRows(teamRows(teamID, creatorID))

		_, err := svc.Invite(ctx, teamID, uuid.New(), &InviteRequest{Email: "friend@example.com"})
		require.ErrorIs(t, err, ErrNotCreator)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a pending invite blocks a duplicate", func(t *testing.T) {
		svc, mock := newTestService(t)
		teamID := uuid.New()
		creatorID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams WHERE id")).
			WithArgs(teamID).
			WillReturnRows(teamRows(teamID, creatorID))
		mock.ExpectQuery(regexp.QuoteMeta("FROM team_invites")).
			WithArgs(teamID, "friend@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := svc.Invite(ctx, teamID, creatorID, &InviteRequest{Email: "Friend@Example.com"})
		require.ErrorIs(t, err, ErrInvitePending)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invite is stored with a lowercased email", func(t *testing.T) {
		svc, mock := newTestService(t)
		teamID := uuid.New()
		creatorID := uuid.New()
		inviteID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams WHERE id")).
			WithArgs(teamID).
			WillReturnRows(teamRows(teamID, creatorID))
		mock.ExpectQuery(regexp.QuoteMeta("FROM team_invites")).
			WithArgs(teamID, "friend@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO team_invites")).
			WithArgs(teamID, "friend@example.com", creatorID).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "team_id", "email", "invited_by", "accepted", "created_at"},
			).AddRow(inviteID.String(), teamID.String(), "friend@example.com", creatorID.String(), nil, time.Now()))

		invite, err := svc.Invite(ctx, teamID, creatorID, &InviteRequest{Email: " Friend@Example.com "})
		require.NoError(t, err)
		assert.Equal(t, "friend@example.com", invite.Email)
		assert.Nil(t, invite.Accepted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceRespond(t *testing.T) {
	ctx := context.Background()
	inviteColumns := []string{"id", "team_id", "email", "invited_by", "accepted", "created_at", "name"}

	t.Run("accepting enrolls the user atomically", func(t *testing.T) {
		svc, mock := newTestService(t)
		inviteID := uuid.New()
		teamID := uuid.New()
		userID := uuid.New()
		inviterID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM team_invites i")).
			WithArgs(inviteID).
			WillReturnRows(sqlmock.NewRows(inviteColumns).
				AddRow(inviteID.String(), teamID.String(), "friend@example.com", inviterID.String(), nil, time.Now(), "Trip"))

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE team_invites")).
			WithArgs(inviteID, true).
			WillReturnRows(sqlmock.NewRows(inviteColumns[:6]).
				AddRow(inviteID.String(), teamID.String(), "friend@example.com", inviterID.String(), true, time.Now()))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO team_members")).
			WithArgs(teamID, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		updated, err := svc.Respond(ctx, inviteID, userID, true)
		require.NoError(t, err)
		require.NotNil(t, updated.Accepted)
		assert.True(t, *updated.Accepted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejecting does not enroll", func(t *testing.T) {
		svc, mock := newTestService(t)
		inviteID := uuid.New()
		teamID := uuid.New()
		inviterID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM team_invites i")).
			WithArgs(inviteID).
			WillReturnRows(sqlmock.NewRows(inviteColumns).
				AddRow(inviteID.String(), teamID.String(), "friend@example.com", inviterID.String(), nil, time.Now(), "Trip"))

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE team_invites")).
			WithArgs(inviteID, false).
			WillReturnRows(sqlmock.NewRows(inviteColumns[:6]).
				AddRow(inviteID.String(), teamID.String(), "friend@example.com", inviterID.String(), false, time.Now()))
		mock.ExpectCommit()

		updated, err := svc.Respond(ctx, inviteID, uuid.New(), false)
		require.NoError(t, err)
		require.NotNil(t, updated.Accepted)
		assert.False(t, *updated.Accepted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("an answered invite cannot be answered again", func(t *testing.T) {
		svc, mock := newTestService(t)
		inviteID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM team_invites i")).
			WithArgs(inviteID).
			WillReturnRows(sqlmock.NewRows(inviteColumns).
				AddRow(inviteID.String(), uuid.New().String(), "friend@example.com", uuid.New().String(), true, time.Now(), "Trip"))

		_, err := svc.Respond(ctx, inviteID, uuid.New(), false)
		require.ErrorIs(t, err, ErrInviteHandled)
		assert.True(t, apperr.IsValidation(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing invite", func(t *testing.T) {
		svc, mock := newTestService(t)
		inviteID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM team_invites i")).
			WithArgs(inviteID).
			WillReturnRows(sqlmock.NewRows(inviteColumns))

		_, err := svc.Respond(ctx, inviteID, uuid.New(), true)
		require.ErrorIs(t, err, ErrInviteNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceRemoveMember(t *testing.T) {
	ctx := context.Background()

	t.Run("removal marks the member's splits and reports them", func(t *testing.T) {
		svc, mock := newTestService(t)
		teamID := uuid.New()
		creatorID := uuid.New()
		memberID := uuid.New()
		splitA := uuid.New()
		splitB := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams WHERE id")).
			WithArgs(teamID).
			WillReturnRows(teamRows(teamID, creatorID))

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE team_members")).
			WithArgs(teamID, memberID, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE splits")).
			WithArgs(teamID, memberID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).
				AddRow(splitA.String()).
				AddRow(splitB.String()))
		mock.ExpectCommit()

		affected, err := svc.RemoveMember(ctx, teamID, memberID, creatorID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{splitA, splitB}, affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("removing an already-removed member", func(t *testing.T) {
		svc, mock := newTestService(t)
		teamID := uuid.New()
		creatorID := uuid.New()
		memberID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams WHERE id")).
			WithArgs(teamID).
			WillReturnRows(teamRows(teamID, creatorID))

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE team_members")).
			WithArgs(teamID, memberID, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := svc.RemoveMember(ctx, teamID, memberID, creatorID)
		require.ErrorIs(t, err, ErrMemberNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("only the creator may remove", func(t *testing.T) {
		svc, mock := newTestService(t)
		teamID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams WHERE id")).
			WithArgs(teamID).
			WillReturnRows(teamRows(teamID, uuid.New()))

		_, err := svc.RemoveMember(ctx, teamID, uuid.New(), uuid.New())
		require.ErrorIs(t, err, ErrNotCreator)
		assert.True(t, apperr.IsForbidden(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestServiceAddMember(t *testing.T) {
	ctx := context.Background()

	t.Run("an active member cannot be added twice", func(t *testing.T) {
		svc, mock := newTestService(t)
		teamID := uuid.New()
		creatorID := uuid.New()
		memberID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams WHERE id")).
			WithArgs(teamID).
			WillReturnRows(teamRows(teamID, creatorID))
		mock.ExpectQuery(regexp.QuoteMeta("FROM team_members")).
			WithArgs(teamID, memberID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		_, err := svc.AddMember(ctx, teamID, creatorID, &AddMemberRequest{UserID: memberID})
		require.ErrorIs(t, err, ErrAlreadyMember)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("a removed member can rejoin", func(t *testing.T) {
		svc, mock := newTestService(t)
		teamID := uuid.New()
		creatorID := uuid.New()
		memberID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM teams WHERE id")).
			WithArgs(teamID).
			WillReturnRows(teamRows(teamID, creatorID))
		mock.ExpectQuery(regexp.QuoteMeta("FROM team_members")).
			WithArgs(teamID, memberID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO team_members")).
			WithArgs(teamID, memberID).
			WillReturnRows(sqlmock.NewRows([]string{"team_id", "user_id", "joined_at", "is_removed"}).
				AddRow(teamID.String(), memberID.String(), time.Now(), false))

		m, err := svc.AddMember(ctx, teamID, creatorID, &AddMemberRequest{UserID: memberID})
		require.NoError(t, err)
		assert.Equal(t, memberID, m.UserID)
		assert.False(t, m.Removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
