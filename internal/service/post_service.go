package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"yourspace/internal/models"
	"yourspace/internal/repository"
)

// PostService creates posts and serves the ranked feed.
type PostService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository) *PostService {
	return &PostService{postRepo: postRepo, userRepo: userRepo, now: time.Now}
}

func (s *PostService) CreatePost(ctx context.Context, authorID uint, in models.CreatePostInput) (*models.PostView, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Content cannot be empty")
	}
	if utf8.RuneCountInString(content) > models.MaxPostContentLength {
		return nil, models.NewValidationError(
			fmt.Sprintf("Content cannot exceed %d characters", models.MaxPostContentLength))
	}

	exists, err := s.userRepo.Exists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewValidationError("User not found")
	}

	post := &models.Post{
		UserID:    authorID,
		Content:   content,
		MediaURL:  trimOptional(in.MediaURL),
		CreatedAt: s.now().UTC(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewValidationError("User not found")
		}
		return nil, err
	}
	return s.postRepo.GetView(ctx, post.ID)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.PostView, error) {
	return s.postRepo.GetView(ctx, id)
}

// GetFeed ranks posts by followed author first, then recency.
// skip and take are a flat window over the combined ordering.
func (s *PostService) GetFeed(ctx context.Context, viewerID uint, skip, take int) ([]models.FeedEntry, error) {
	return s.postRepo.Feed(ctx, viewerID, skip, take)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID uint, skip, take int) ([]models.PostView, error) {
	return s.postRepo.ListByUser(ctx, userID, skip, take)
}

// DeletePost removes a post owned by requesterID. A missing post is reported
// before ownership is evaluated.
func (s *PostService) DeletePost(ctx context.Context, postID, requesterID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != requesterID {
		return models.NewForbiddenError("Not authorized to delete this post")
	}
	return s.postRepo.Delete(ctx, postID)
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
