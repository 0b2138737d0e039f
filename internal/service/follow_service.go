// Package service holds the business rules that sit between HTTP handlers and repositories.
package service

import (
	"context"
	"time"

	"yourspace/internal/models"
	"yourspace/internal/repository"
)

// FollowService manages the directed follow graph.
type FollowService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
	now     func() time.Time
}

func NewFollowService(follows repository.FollowRepository, users repository.UserRepository) *FollowService {
	return &FollowService{follows: follows, users: users, now: time.Now}
}

// Follow creates the edge followerID -> followedID. Preconditions are checked
// in order and the first failure wins; the unique index still guards against
// a concurrent duplicate slipping past the pre-check.
func (s *FollowService) Follow(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	if followerID == followedID {
		return nil, models.NewConflictError("Cannot follow yourself")
	}

	ok, err := s.users.Exists(ctx, followerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewConflictError("Follower user not found")
	}

	ok, err = s.users.Exists(ctx, followedID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewConflictError("Followed user not found")
	}

	following, err := s.follows.Exists(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}
	if following {
		return nil, models.NewConflictError("Already following this user")
	}

	follow := &models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.follows.Create(ctx, follow); err != nil {
		// The user vanished between the existence check and the insert.
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewConflictError("Followed user not found")
		}
		return nil, err
	}
	return follow, nil
}

func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	removed, err := s.follows.Delete(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if !removed {
		return models.NewConflictError("Not following this user")
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followedID uint) (*models.FollowStatus, error) {
	ok, err := s.follows.Exists(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}
	return &models.FollowStatus{FollowerID: followerID, FollowedID: followedID, IsFollowing: ok}, nil
}

func (s *FollowService) Stats(ctx context.Context, userID uint) (*models.FollowStats, error) {
	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.FollowStats{UserID: userID, FollowersCount: followers, FollowingCount: following}, nil
}

func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.follows.ListFollowers(ctx, userID)
}

func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.follows.ListFollowing(ctx, userID)
}
