package service

import (
	"context"
	"testing"

	"Orbit_Social/internal/errs"
	"Orbit_Social/internal/model"
	"Orbit_Social/internal/repository/mysql"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFollowService(t *testing.T) (*FollowService, *gorm.DB) {
	db := newTestDB(t)
	return NewFollowService(mysql.NewFollowRepository(db), mysql.NewUserRepository(db)), db
}

func TestFollowService_RequestCreatesPending(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	status, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, model.FollowStatusPending, status)

	// pending is not following yet
	ok, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFollowService_SelfFollowRejected(t *testing.T) {
	svc, db := newFollowService(t)
	alice := seedUser(t, db, "alice")

	_, err := svc.FollowUser(context.Background(), alice.ID, alice.ID)
	require.ErrorIs(t, err, ErrSelfFollow)
	require.Equal(t, errs.KindValidation, errs.KindOf(err))
}

func TestFollowService_TargetMustExist(t *testing.T) {
	svc, db := newFollowService(t)
	alice := seedUser(t, db, "alice")

	_, err := svc.FollowUser(context.Background(), alice.ID, 999)
	require.ErrorIs(t, err, mysql.ErrUserNotFound)
	require.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestFollowService_DuplicateRequestConflict(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.FollowUser(ctx, alice.ID, bob.ID)
	require.ErrorIs(t, err, mysql.ErrDuplicateFollow)
	require.Equal(t, errs.KindConflict, errs.KindOf(err))
}

func TestFollowService_AcceptCreatesMutual(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AcceptFollowRequest(ctx, alice.ID, bob.ID))

	// acceptance materializes both directions
	ok, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = svc.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFollowService_AcceptWithoutRequest(t *testing.T) {
	svc, db := newFollowService(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	err := svc.AcceptFollowRequest(context.Background(), alice.ID, bob.ID)
	require.ErrorIs(t, err, mysql.ErrFollowRequestNotFound)
	require.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestFollowService_RejectThenRefollow(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.RejectFollowRequest(ctx, alice.ID, bob.ID))

	ok, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, ok)

	// a rejected request may be re-issued
	status, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, model.FollowStatusPending, status)
}

func TestFollowService_FollowBackAcceptsPending(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// bob following back while alice's request is open connects both at once
	status, err := svc.FollowUser(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, model.FollowStatusAccepted, status)

	ok, _ := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.True(t, ok)
	ok, _ = svc.IsFollowing(ctx, bob.ID, alice.ID)
	require.True(t, ok)
}

func TestFollowService_UnfollowBreaksBothDirections(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AcceptFollowRequest(ctx, alice.ID, bob.ID))

	changed, err := svc.UnfollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, changed)

	ok, _ := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.False(t, ok)
	ok, _ = svc.IsFollowing(ctx, bob.ID, alice.ID)
	require.False(t, ok)

	var n int64
	require.NoError(t, db.Model(&model.Follow{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestFollowService_UnfollowIdempotent(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	changed, err := svc.UnfollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestFollowService_UnfollowPendingRequest(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	// withdrawing an open request is just an unfollow
	changed, err := svc.UnfollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.True(t, changed)

	rows, _, err := svc.ListPendingRequests(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestFollowService_ListsAndPendingQueues(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.FollowUser(ctx, carol.ID, bob.ID)
	require.NoError(t, err)

	incoming, _, err := svc.ListPendingRequests(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, incoming, 2)

	sent, _, err := svc.ListSentRequests(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	require.Equal(t, bob.ID, sent[0].ID)

	require.NoError(t, svc.AcceptFollowRequest(ctx, alice.ID, bob.ID))

	following, _, err := svc.GetFollowing(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	require.Equal(t, bob.ID, following[0].ID)

	followers, _, err := svc.GetFollowers(ctx, alice.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	require.Equal(t, bob.ID, followers[0].ID)

	// carol's request is still open
	incoming, _, err = svc.ListPendingRequests(ctx, bob.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	require.Equal(t, carol.ID, incoming[0].ID)
}

func TestFollowService_OutboxEventsRecorded(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AcceptFollowRequest(ctx, alice.ID, bob.ID))
	_, err = svc.UnfollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	var events []string
	require.NoError(t, db.Model(&model.SocialOutbox{}).Order("id ASC").Pluck("event_type", &events).Error)
	require.Equal(t, []string{
		mysql.EventFollowRequested,
		mysql.EventFollowAccepted,
		mysql.EventFollowRemoved,
	}, events)
}

func TestOutboxRelayer_DrainMarksRows(t *testing.T) {
	svc, db := newFollowService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.FollowUser(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, svc.AcceptFollowRequest(ctx, alice.ID, bob.ID))

	var sent []string
	relayer := NewOutboxRelayer(mysql.NewOutboxRepository(db), func(ctx context.Context, ob *model.SocialOutbox) error {
		sent = append(sent, ob.EventType)
		return nil
	})
	relayer.drainOnce(ctx)

	require.Equal(t, []string{mysql.EventFollowRequested, mysql.EventFollowAccepted}, sent)

	var pending int64
	require.NoError(t, db.Model(&model.SocialOutbox{}).Where("status = ?", 0).Count(&pending).Error)
	require.Zero(t, pending)

	// drained rows are not re-sent
	sent = nil
	relayer.drainOnce(ctx)
	require.Empty(t, sent)
}
