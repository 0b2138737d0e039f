package server

import (
	"yourspace/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages
// @Summary Send a direct message
// @Description The receiver's open sockets get a message_received event
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SendMessageInput true "Receiver and content"
// @Success 200 {object} models.MessageRecord
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req models.SendMessageInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.messageService.SendMessage(c.UserContext(), currentUserID(c), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(msg)
}

// GetConversations handles GET /api/messages/conversations
// @Summary Conversation list
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ConversationSummary
// @Router /messages/conversations [get]
func (s *Server) GetConversations(c *fiber.Ctx) error {
	convs, err := s.messageService.GetConversations(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(convs)
}

// GetMessagesWithUser handles GET /api/messages/:otherUserId
// @Summary Thread with one user
// @Description Returns the full history, then marks the other user's messages as read
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param otherUserId path int true "Other participant"
// @Success 200 {array} models.MessageRecord
// @Router /messages/{otherUserId} [get]
func (s *Server) GetMessagesWithUser(c *fiber.Ctx) error {
	otherUserID, err := s.parseID(c, "otherUserId")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()
	userID := currentUserID(c)

	msgs, err := s.messageService.GetMessagesWithUser(ctx, userID, otherUserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if _, err := s.messageService.MarkMessagesAsRead(ctx, userID, otherUserID); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(msgs)
}
