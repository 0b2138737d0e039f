package models

import "time"

const MaxPostContentLength = 5000

// Post is a content item owned by a user. Content is immutable after creation.
type Post struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	User       *User     `gorm:"foreignKey:UserID" json:"-"`
	Content    string    `gorm:"size:5000;not null" json:"content"`
	MediaURL   *string   `json:"mediaUrl"`
	LikesCount int       `gorm:"not null;default:0" json:"likesCount"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
}

// PostView is a post joined with its author's display data.
type PostView struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl"`
	Content     string    `json:"content"`
	MediaURL    *string   `json:"mediaUrl"`
	LikesCount  int       `json:"likesCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FeedEntry is a post annotated with whether the viewer follows its author.
type FeedEntry struct {
	PostView
	IsFollowedAuthor bool `json:"isFollowedAuthor"`
}

// CreatePostInput is the body of POST /posts.
type CreatePostInput struct {
	Content  string  `json:"content"`
	MediaURL *string `json:"mediaUrl"`
}
