package models

import "time"

const (
	MaxProfileHTMLLength = 50000
	MaxProfileCSSLength  = 20000
	MaxDisplayNameLength = 100
	MaxBioLength         = 500
)

// Profile holds the customizable page of a user. CustomHTML and CustomCSS
// are stored already sanitized.
type Profile struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"userId"`
	DisplayName string    `gorm:"size:100" json:"displayName"`
	Bio         string    `gorm:"size:500" json:"bio"`
	CustomHTML  string    `gorm:"type:text" json:"customHtml"`
	CustomCSS   string    `gorm:"type:text" json:"customCss"`
	AvatarURL   *string   `json:"avatarUrl"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateProfileInput is the editable part of a profile.
type UpdateProfileInput struct {
	DisplayName string  `json:"displayName" validate:"max=100"`
	Bio         string  `json:"bio" validate:"max=500"`
	CustomHTML  string  `json:"customHtml"`
	CustomCSS   string  `json:"customCss"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,max=2048"`
}
