package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"yourspace/internal/middleware"
	"yourspace/internal/models"
	"yourspace/internal/repository"
)

const MaxMessageContentLength = 5000

// MessageNotifier pushes a stored message to the receiver's live sessions.
// Implementations must tolerate an offline receiver.
type MessageNotifier interface {
	NotifyMessage(ctx context.Context, msg models.MessageRecord)
}

type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	notifier    MessageNotifier
	now         func() time.Time
}

// NewMessageService builds the service. notifier may be nil.
func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifier MessageNotifier,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		now:         time.Now,
	}
}

// SendMessage stores a new unread message and returns as soon as it is
// persisted. The live push runs in the background.
func (s *MessageService) SendMessage(ctx context.Context, senderID uint, in models.SendMessageInput) (*models.MessageRecord, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Message content cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxMessageContentLength {
		return nil, models.NewValidationError(
			fmt.Sprintf("Message content cannot exceed %d characters", MaxMessageContentLength))
	}
	if in.ReceiverID == senderID {
		return nil, models.NewValidationError("Cannot send a message to yourself")
	}

	exists, err := s.userRepo.Exists(ctx, in.ReceiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundMessage("Receiver not found")
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		Content:    content,
		SentAt:     s.now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	rec := msg.ToRecord()
	s.notify(ctx, rec)
	return &rec, nil
}

// notify pushes in the background. The push outlives the caller, so ctx must
// be a plain context.Context that stays valid after the request ends.
func (s *MessageService) notify(ctx context.Context, rec models.MessageRecord) {
	if s.notifier == nil {
		return
	}
	pushCtx := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				middleware.Logger.Error("message push panicked",
					slog.Uint64("message_id", uint64(rec.ID)),
					slog.Any("panic", r))
			}
		}()
		s.notifier.NotifyMessage(pushCtx, rec)
	}()
}

func (s *MessageService) GetConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	return s.messageRepo.Conversations(ctx, userID)
}

// GetMessagesWithUser returns the full two-way history, oldest first.
func (s *MessageService) GetMessagesWithUser(ctx context.Context, userID, otherUserID uint) ([]models.MessageRecord, error) {
	msgs, err := s.messageRepo.Thread(ctx, userID, otherUserID)
	if err != nil {
		return nil, err
	}
	out := make([]models.MessageRecord, 0, len(msgs))
	for i := range msgs {
		out = append(out, msgs[i].ToRecord())
	}
	return out, nil
}

// MarkMessagesAsRead flags everything otherUserID sent to userID as read. Idempotent.
func (s *MessageService) MarkMessagesAsRead(ctx context.Context, userID, otherUserID uint) (int64, error) {
	return s.messageRepo.MarkRead(ctx, userID, otherUserID, s.now().UTC())
}
