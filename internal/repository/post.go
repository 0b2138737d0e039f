package repository

import (
	"context"

	"yourspace/internal/models"

	"gorm.io/gorm"
)

// PostRepository persists posts and reads them back with author display data.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetView(ctx context.Context, id uint) (*models.PostView, error)
	Delete(ctx context.Context, id uint) error
	Feed(ctx context.Context, viewerID uint, offset, limit int) ([]models.FeedEntry, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.PostView, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a GORM-backed PostRepository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

const postViewColumns = `posts.id, posts.user_id, users.username,
	COALESCE(NULLIF(profiles.display_name, ''), users.username) AS display_name,
	profiles.avatar_url, posts.content, posts.media_url, posts.likes_count, posts.created_at`

func (r *postRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("posts").
		Joins("JOIN users ON users.id = posts.user_id").
		Joins("LEFT JOIN profiles ON profiles.user_id = posts.user_id")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundMessage("User not found")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundMessage("Post not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetView(ctx context.Context, id uint) (*models.PostView, error) {
	var rows []models.PostView
	if err := r.views(ctx).Select(postViewColumns).Where("posts.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(rows) == 0 {
		return nil, models.NewNotFoundMessage("Post not found")
	}
	return &rows[0], nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundMessage("Post not found")
	}
	return nil
}

// Feed returns every post, followed authors first, newest first within each
// group. Ties on created_at fall back to id so offsets are stable.
func (r *postRepository) Feed(ctx context.Context, viewerID uint, offset, limit int) ([]models.FeedEntry, error) {
	offset, limit = clampPage(offset, limit)

	entries := []models.FeedEntry{}
	err := r.views(ctx).
		Select(postViewColumns+`,
	CASE WHEN f.id IS NULL THEN 0 ELSE 1 END AS is_followed_author`).
		Joins("LEFT JOIN follows f ON f.followed_id = posts.user_id AND f.follower_id = ?", viewerID).
		Order("is_followed_author DESC, posts.created_at DESC, posts.id DESC").
		Offset(offset).Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return entries, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.PostView, error) {
	offset, limit = clampPage(offset, limit)

	posts := []models.PostView{}
	err := r.views(ctx).Select(postViewColumns).
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC, posts.id DESC").
		Offset(offset).Limit(limit).
		Scan(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
