package service

import (
	"context"

	"yourspace/internal/models"
	"yourspace/internal/repository"
)

// PresenceFunc reports whether a user currently holds a live connection.
type PresenceFunc func(userID uint) bool

type UserService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	isOnline   PresenceFunc
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	isOnline PresenceFunc,
) *UserService {
	if isOnline == nil {
		isOnline = func(uint) bool { return false }
	}
	return &UserService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		isOnline:   isOnline,
	}
}

func (s *UserService) ListUsers(ctx context.Context, skip, take int) ([]models.UserDto, error) {
	users, err := s.userRepo.List(ctx, skip, take)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserDto, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToDto())
	}
	return out, nil
}

// GetUserDetail returns the user with post and follow counters.
func (s *UserService) GetUserDetail(ctx context.Context, id uint) (*models.UserDetailDto, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.CountByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.CountFollowers(ctx, id)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.UserDetailDto{
		UserDto:        user.ToDto(),
		PostsCount:     posts,
		FollowersCount: followers,
		FollowingCount: following,
		IsOnline:       s.isOnline(id),
	}, nil
}
