package repository

import (
	"context"
	"sort"
	"time"

	"yourspace/internal/models"

	"gorm.io/gorm"
)

// MessageRepository persists direct messages between two users.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	Thread(ctx context.Context, userID, otherUserID uint) ([]models.Message, error)
	MarkRead(ctx context.Context, receiverID, senderID uint, at time.Time) (int64, error)
	Conversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a GORM-backed MessageRepository.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create stores msg and reloads it with both participants.
func (r *messageRepository) Create(ctx context.Context, msg *models.Message) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Sender", "Receiver").Create(msg).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundMessage("Receiver not found")
		}
		return models.NewInternalError(err)
	}
	if err := db.Preload("Sender").Preload("Receiver").First(msg, msg.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Thread returns both directions of the conversation, oldest first.
func (r *messageRepository) Thread(ctx context.Context, userID, otherUserID uint) ([]models.Message, error) {
	msgs := []models.Message{}
	err := r.db.WithContext(ctx).
		Preload("Sender").Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Order("sent_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// MarkRead flags unread messages from senderID to receiverID as read.
func (r *messageRepository) MarkRead(ctx context.Context, receiverID, senderID uint, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

// Conversations groups every message touching userID by the other participant.
// Each summary previews the latest message and counts unread messages addressed to userID.
func (r *messageRepository) Conversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Preload("Sender.Profile").Preload("Receiver.Profile").
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("sent_at DESC, id DESC").
		Find(&msgs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	byOther := make(map[uint]*models.ConversationSummary)
	order := make([]uint, 0)
	for i := range msgs {
		m := &msgs[i]
		other, otherID := m.Receiver, m.ReceiverID
		if m.SenderID != userID {
			other, otherID = m.Sender, m.SenderID
		}

		summary, seen := byOther[otherID]
		if !seen {
			summary = &models.ConversationSummary{
				OtherUserID:        otherID,
				LastMessageContent: m.Content,
				LastMessageTime:    m.SentAt,
			}
			if other != nil {
				summary.OtherUsername = other.Username
				if other.Profile != nil {
					summary.OtherUserAvatar = other.Profile.AvatarURL
				}
			}
			byOther[otherID] = summary
			order = append(order, otherID)
		}
		if m.ReceiverID == userID && !m.IsRead {
			summary.UnreadCount++
		}
	}

	out := make([]models.ConversationSummary, 0, len(order))
	for _, id := range order {
		out = append(out, *byOther[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageTime.After(out[j].LastMessageTime)
	})
	return out, nil
}
