package repository

import (
	"context"

	"yourspace/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository persists profile pages. Stored HTML and CSS are already sanitized.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a GORM-backed ProfileRepository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundMessage("Profile not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("users.username = ?", username).
		First(&profile).Error
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundMessage("Profile not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

// Update writes every editable column of an existing profile.
func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	res := r.db.WithContext(ctx).Model(profile).
		Select("DisplayName", "Bio", "CustomHTML", "CustomCSS", "AvatarURL", "UpdatedAt").
		Updates(profile)
	if res.Error != nil {
		if isCheckConstraintError(res.Error) {
			return models.NewValidationError("Profile content exceeds the allowed size")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundMessage("Profile not found")
	}
	return nil
}
