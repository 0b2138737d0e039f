package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"yourspace/internal/models"
	"yourspace/internal/notifications"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_PushesToReceiver(t *testing.T) {
	env := newTestEnv(t)
	sender, token := env.user(t, "sender")
	receiver, _ := env.user(t, "receiver")

	client, err := env.srv.hub.Register(receiver.ID, nil)
	require.NoError(t, err)
	defer env.srv.hub.UnregisterClient(client)

	resp := env.do(t, http.MethodPost, "/api/messages", fiber.Map{
		"receiverId": receiver.ID,
		"content":    "  hey there  ",
	}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var msg models.MessageRecord
	decode(t, resp, &msg)
	assert.Equal(t, sender.ID, msg.SenderID)
	assert.Equal(t, receiver.ID, msg.ReceiverID)
	assert.Equal(t, "hey there", msg.Content)
	assert.False(t, msg.IsRead)

	select {
	case frame := <-client.Send:
		var event struct {
			Type    string               `json:"type"`
			Payload models.MessageRecord `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(frame, &event))
		assert.Equal(t, notifications.EventMessageReceived, event.Type)
		assert.Equal(t, msg.ID, event.Payload.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("receiver got no live event")
	}
}

func TestSendMessage_Failures(t *testing.T) {
	env := newTestEnv(t)
	me, token := env.user(t, "lonely")

	tests := []struct {
		name           string
		body           fiber.Map
		expectedStatus int
		message        string
	}{
		{"to self", fiber.Map{"receiverId": me.ID, "content": "hi me"}, fiber.StatusBadRequest, "Cannot send a message to yourself"},
		{"unknown receiver", fiber.Map{"receiverId": 9999, "content": "anyone?"}, fiber.StatusNotFound, "Receiver not found"},
		{"blank content", fiber.Map{"receiverId": 9999, "content": "   "}, fiber.StatusBadRequest, "Message content cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/messages", tt.body, token)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.Equal(t, tt.message, errorMessage(t, resp))
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConversationAndThread(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.user(t, "alice")
	bob, bobToken := env.user(t, "bob")

	for _, text := range []string{"first", "second"} {
		resp := env.do(t, http.MethodPost, "/api/messages",
			fiber.Map{"receiverId": bob.ID, "content": text}, aliceToken)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp := env.do(t, http.MethodGet, "/api/messages/conversations", nil, bobToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var convs []models.ConversationSummary
	decode(t, resp, &convs)
	require.Len(t, convs, 1)
	assert.Equal(t, alice.ID, convs[0].OtherUserID)
	assert.Equal(t, "second", convs[0].LastMessageContent)
	assert.Equal(t, int64(2), convs[0].UnreadCount)

	threadPath := fmt.Sprintf("/api/messages/%d", alice.ID)
	resp = env.do(t, http.MethodGet, threadPath, nil, bobToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var thread []models.MessageRecord
	decode(t, resp, &thread)
	require.Len(t, thread, 2)
	assert.Equal(t, "first", thread[0].Content)
	assert.Equal(t, "second", thread[1].Content)

	var unread int64
	require.NoError(t, env.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", bob.ID, false).Count(&unread).Error)
	assert.Zero(t, unread, "opening the thread marks it read")

	resp = env.do(t, http.MethodGet, "/api/messages/conversations", nil, bobToken)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &convs)
	require.Len(t, convs, 1)
	assert.Zero(t, convs[0].UnreadCount)

	resp = env.do(t, http.MethodGet, threadPath, nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

// The push outlives the request, so it must not hold on to the pooled
// request context. Run with -race.
func TestSendMessage_PushSurvivesRequestRecycling(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.user(t, "busy")
	receiver, _ := env.user(t, "inbox")

	client, err := env.srv.hub.Register(receiver.ID, nil)
	require.NoError(t, err)
	defer env.srv.hub.UnregisterClient(client)

	// Wire the hub to a pub/sub Redis that then goes away, so every push
	// takes the publish-failed path and logs with the request context.
	pubsub := miniredis.RunT(t)
	pubsubClient := redis.NewClient(&redis.Options{Addr: pubsub.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = pubsubClient.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, env.srv.hub.StartWiring(ctx, notifications.NewNotifier(pubsubClient)))
	pubsub.Close()

	const sends = 20
	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			resp := env.do(t, http.MethodPost, "/api/messages", fiber.Map{
				"receiverId": receiver.ID,
				"content":    fmt.Sprintf("note %d", i),
			}, token)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}(i)
		go func() {
			defer wg.Done()
			resp := env.do(t, http.MethodGet, "/health/live", nil, "")
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		}()
	}
	wg.Wait()

	// Failed publishes fall back to local delivery.
	for i := 0; i < sends; i++ {
		select {
		case <-client.Send:
		case <-time.After(2 * time.Second):
			t.Fatalf("received %d of %d live events", i, sends)
		}
	}
}
