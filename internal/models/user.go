// Package models contains data structures for the application's domain models.
package models

import "time"

const (
	MaxUsernameLength = 50
	MaxEmailLength    = 255
)

// User is an account identity. Users are never hard-deleted.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	Profile      *Profile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// DisplayNameOrUsername prefers the profile display name.
func (u *User) DisplayNameOrUsername() string {
	if u.Profile != nil && u.Profile.DisplayName != "" {
		return u.Profile.DisplayName
	}
	return u.Username
}

// UserDto is the public shape of a user.
type UserDto struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"createdAt"`
	DisplayName string    `json:"displayName"`
	Profile     *Profile  `json:"profile"`
}

// UserDetailDto adds aggregate counters to UserDto.
type UserDetailDto struct {
	UserDto
	PostsCount     int64 `json:"postsCount"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
	IsOnline       bool  `json:"isOnline"`
}

// ToDto maps a user (with optional preloaded profile) to its DTO.
func (u *User) ToDto() UserDto {
	return UserDto{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
		DisplayName: u.DisplayNameOrUsername(),
		Profile:     u.Profile,
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Token   string   `json:"token,omitempty"`
	User    *UserDto `json:"user,omitempty"`
}
