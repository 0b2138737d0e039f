package server

import (
	"context"

	"yourspace/internal/models"
	"yourspace/internal/notifications"
)

// NotifyMessage pushes a stored message to the receiver's open sockets.
// Offline receivers and transport errors are absorbed by the hub.
func (s *Server) NotifyMessage(ctx context.Context, msg models.MessageRecord) {
	if s.hub == nil {
		return
	}
	s.hub.Deliver(ctx, msg.ReceiverID, notifications.Event{
		Type:    notifications.EventMessageReceived,
		Payload: msg,
	})
}
