package models

import "time"

// Follow is a directed edge: FollowerID follows FollowedID.
// The pair is unique and self-loops are rejected by the schema.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;check:chk_follows_no_self,follower_id <> followed_id" json:"followerId"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"followedId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserSummary is the denormalized user row returned by follower listings.
type UserSummary struct {
	ID          uint    `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl"`
	PostsCount  int64   `json:"postsCount"`
}

// FollowStats holds follower and following counts for one user.
type FollowStats struct {
	UserID         uint  `json:"userId"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}

// FollowStatus answers whether one user follows another.
type FollowStatus struct {
	FollowerID  uint `json:"followerId"`
	FollowedID  uint `json:"followedId"`
	IsFollowing bool `json:"isFollowing"`
}
