package repository

import (
	"context"

	"yourspace/internal/models"

	"gorm.io/gorm"
)

// FollowRepository stores directed follow edges. The unique (follower, followed)
// index and the no-self-loop check are the authority on both invariants.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followedID uint) (bool, error)
	Exists(ctx context.Context, followerID, followedID uint) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a GORM-backed FollowRepository.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	err := r.db.WithContext(ctx).Create(follow).Error
	switch {
	case err == nil:
		return nil
	case isUniqueConstraintError(err):
		return models.NewConflictError("Already following this user")
	case isCheckConstraintError(err):
		return models.NewConflictError("Cannot follow yourself")
	case isForeignKeyError(err):
		return models.NewNotFoundMessage("Followed user not found")
	default:
		return models.NewInternalError(err)
	}
}

// Delete removes the edge and reports whether one existed.
func (r *followRepository) Delete(ctx context.Context, followerID, followedID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return n > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "followed_id = ?", userID)
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "follower_id = ?", userID)
}

func (r *followRepository) count(ctx context.Context, where string, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where(where, userID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return r.summaries(ctx, "follows.follower_id", "follows.followed_id", userID)
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return r.summaries(ctx, "follows.followed_id", "follows.follower_id", userID)
}

// summaries lists the users on the `side` column of edges whose `anchor` column is userID.
func (r *followRepository) summaries(ctx context.Context, side, anchor string, userID uint) ([]models.UserSummary, error) {
	out := []models.UserSummary{}
	err := r.db.WithContext(ctx).Table("follows").
		Select(`users.id, users.username,
	COALESCE(NULLIF(profiles.display_name, ''), users.username) AS display_name,
	profiles.avatar_url,
	(SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id) AS posts_count`).
		Joins("JOIN users ON users.id = "+side).
		Joins("LEFT JOIN profiles ON profiles.user_id = users.id").
		Where(anchor+" = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}
