package repository

import (
	"context"
	"testing"
	"time"

	"yourspace/internal/models"
	"yourspace/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sendAt(t *testing.T, repo MessageRepository, from, to uint, content string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{SenderID: from, ReceiverID: to, Content: content, SentAt: at}
	require.NoError(t, repo.Create(context.Background(), m))
	return m
}

func setupMessaging(t *testing.T) (*gorm.DB, MessageRepository, *models.User, *models.User, *models.User) {
	db := testutil.NewDB(t)
	return db, NewMessageRepository(db),
		testutil.CreateUser(t, db, "alice"),
		testutil.CreateUser(t, db, "bob"),
		testutil.CreateUser(t, db, "carol")
}

func TestMessageRepository_CreateLoadsParticipants(t *testing.T) {
	_, repo, a, b, _ := setupMessaging(t)

	m := sendAt(t, repo, a.ID, b.ID, "hey", base)
	require.NotNil(t, m.Sender)
	require.NotNil(t, m.Receiver)
	rec := m.ToRecord()
	assert.Equal(t, "alice", rec.SenderUsername)
	assert.Equal(t, "bob", rec.ReceiverUsername)
	assert.False(t, rec.IsRead)
	assert.Nil(t, rec.ReadAt)
}

func TestMessageRepository_ThreadIsChronological(t *testing.T) {
	_, repo, a, b, c := setupMessaging(t)
	sendAt(t, repo, a.ID, b.ID, "1", base)
	sendAt(t, repo, b.ID, a.ID, "2", base.Add(time.Minute))
	sendAt(t, repo, a.ID, c.ID, "other", base.Add(2*time.Minute))
	sendAt(t, repo, a.ID, b.ID, "3", base.Add(3*time.Minute))

	thread, err := repo.Thread(context.Background(), b.ID, a.ID)
	require.NoError(t, err)
	var got []string
	for _, m := range thread {
		got = append(got, m.Content)
	}
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestMessageRepository_MarkReadIsIdempotent(t *testing.T) {
	db, repo, a, b, _ := setupMessaging(t)
	ctx := context.Background()
	sendAt(t, repo, a.ID, b.ID, "1", base)
	sendAt(t, repo, a.ID, b.ID, "2", base.Add(time.Minute))
	sendAt(t, repo, b.ID, a.ID, "reply", base.Add(2*time.Minute))

	n, err := repo.MarkRead(ctx, b.ID, a.ID, base.Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = repo.MarkRead(ctx, b.ID, a.ID, base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	var reply models.Message
	require.NoError(t, db.Where("content = ?", "reply").First(&reply).Error)
	assert.False(t, reply.IsRead, "messages sent by the reader stay unread")

	var first models.Message
	require.NoError(t, db.Where("content = ?", "1").First(&first).Error)
	assert.True(t, first.IsRead)
	require.NotNil(t, first.ReadAt)
	assert.True(t, first.ReadAt.Equal(base.Add(time.Hour)))
}

func TestMessageRepository_Conversations(t *testing.T) {
	_, repo, a, b, c := setupMessaging(t)
	ctx := context.Background()
	sendAt(t, repo, b.ID, a.ID, "b1", base)
	sendAt(t, repo, c.ID, a.ID, "c1", base.Add(time.Minute))
	sendAt(t, repo, b.ID, a.ID, "b2", base.Add(2*time.Minute))
	sendAt(t, repo, a.ID, c.ID, "a->c", base.Add(3*time.Minute))
	_, err := repo.MarkRead(ctx, a.ID, c.ID, base.Add(4*time.Minute))
	require.NoError(t, err)

	convs, err := repo.Conversations(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, c.ID, convs[0].OtherUserID)
	assert.Equal(t, "carol", convs[0].OtherUsername)
	assert.Equal(t, "a->c", convs[0].LastMessageContent)
	assert.Zero(t, convs[0].UnreadCount)

	assert.Equal(t, b.ID, convs[1].OtherUserID)
	assert.Equal(t, "b2", convs[1].LastMessageContent)
	assert.EqualValues(t, 2, convs[1].UnreadCount)

	// Carol has not read alice's latest message yet.
	theirs, err := repo.Conversations(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.EqualValues(t, 1, theirs[0].UnreadCount)
}
