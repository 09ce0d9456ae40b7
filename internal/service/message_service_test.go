package service

import (
	"context"
	"fmt"
	"testing"

	"Orbit_Social/internal/repository/mysql"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMessageService(t *testing.T) (*MessageService, *gorm.DB) {
	db := newTestDB(t)
	return NewMessageService(mysql.NewMessageRepository(db), mysql.NewUserRepository(db)), db
}

func TestMessageService_SendValidation(t *testing.T) {
	svc, db := newMessageService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	_, err := svc.SendMessage(ctx, alice.ID, alice.ID, "hi", "")
	require.ErrorIs(t, err, ErrSelfMessage)

	_, err = svc.SendMessage(ctx, alice.ID, bob.ID, "", "")
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = svc.SendMessage(ctx, alice.ID, 999, "hi", "")
	require.ErrorIs(t, err, mysql.ErrUserNotFound)

	msg, err := svc.SendMessage(ctx, alice.ID, bob.ID, "hi", "")
	require.NoError(t, err)
	require.False(t, msg.IsRead)
}

func TestMessageService_ConversationPagination(t *testing.T) {
	svc, db := newMessageService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	for i := 0; i < 3; i++ {
		_, err := svc.SendMessage(ctx, alice.ID, bob.ID, fmt.Sprintf("a%d", i), "")
		require.NoError(t, err)
		_, err = svc.SendMessage(ctx, bob.ID, alice.ID, fmt.Sprintf("b%d", i), "")
		require.NoError(t, err)
	}
	// noise from another thread
	_, err := svc.SendMessage(ctx, carol.ID, alice.ID, "hey", "")
	require.NoError(t, err)

	page1, next, err := svc.Conversation(ctx, alice.ID, bob.ID, 0, 4)
	require.NoError(t, err)
	require.Len(t, page1, 4)
	require.NotZero(t, next)
	require.Equal(t, "b2", page1[0].Content)

	page2, next, err := svc.Conversation(ctx, alice.ID, bob.ID, next, 4)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	require.Zero(t, next)
	require.Equal(t, "a0", page2[1].Content)
}

func TestMessageService_ReadTracking(t *testing.T) {
	svc, db := newMessageService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := svc.SendMessage(ctx, bob.ID, alice.ID, "one", "")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, bob.ID, alice.ID, "two", "")
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, carol.ID, alice.ID, "three", "")
	require.NoError(t, err)

	n, err := svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)

	marked, err := svc.MarkConversationRead(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), marked)

	n, err = svc.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	// already read, nothing to flip
	marked, err = svc.MarkConversationRead(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Zero(t, marked)
}
