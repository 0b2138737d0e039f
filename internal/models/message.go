package models

import "time"

// Message is a direct message between two users. Only the read state changes after creation.
type Message struct {
	ID         uint       `gorm:"primaryKey"`
	SenderID   uint       `gorm:"not null;index:idx_messages_pair"`
	ReceiverID uint       `gorm:"not null;index:idx_messages_pair;index"`
	Sender     *User      `gorm:"foreignKey:SenderID"`
	Receiver   *User      `gorm:"foreignKey:ReceiverID"`
	Content    string     `gorm:"size:5000;not null"`
	SentAt     time.Time  `gorm:"not null;index"`
	IsRead     bool       `gorm:"not null;default:false"`
	ReadAt     *time.Time
}

// MessageRecord is the API shape of a message.
type MessageRecord struct {
	ID               uint       `json:"id"`
	SenderID         uint       `json:"senderId"`
	ReceiverID       uint       `json:"receiverId"`
	Content          string     `json:"content"`
	SentAt           time.Time  `json:"sentAt"`
	IsRead           bool       `json:"isRead"`
	ReadAt           *time.Time `json:"readAt"`
	SenderUsername   string     `json:"senderUsername"`
	ReceiverUsername string     `json:"receiverUsername"`
}

// ToRecord maps a message with preloaded participants.
func (m *Message) ToRecord() MessageRecord {
	rec := MessageRecord{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		SentAt:     m.SentAt,
		IsRead:     m.IsRead,
		ReadAt:     m.ReadAt,
	}
	if m.Sender != nil {
		rec.SenderUsername = m.Sender.Username
	}
	if m.Receiver != nil {
		rec.ReceiverUsername = m.Receiver.Username
	}
	return rec
}

// ConversationSummary previews the latest message exchanged with one other user.
type ConversationSummary struct {
	OtherUserID        uint      `json:"otherUserId"`
	OtherUsername      string    `json:"otherUsername"`
	OtherUserAvatar    *string   `json:"otherUserAvatar"`
	LastMessageContent string    `json:"lastMessageContent"`
	LastMessageTime    time.Time `json:"lastMessageTime"`
	UnreadCount        int64     `json:"unreadCount"`
}

// SendMessageInput is the body of POST /messages.
type SendMessageInput struct {
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
}
