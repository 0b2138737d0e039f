package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"yourspace/internal/models"
	"yourspace/internal/observability"
	"yourspace/internal/repository"
	"yourspace/internal/sanitize"
	"yourspace/internal/validation"
)

type ProfileService struct {
	profiles repository.ProfileRepository
	policy   *sanitize.Policy
	now      func() time.Time
}

// NewProfileService wires a profile store to the shared sanitizer policy.
func NewProfileService(profiles repository.ProfileRepository, policy *sanitize.Policy) *ProfileService {
	return &ProfileService{profiles: profiles, policy: policy, now: time.Now}
}

func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.profiles.GetByUsername(ctx, username)
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

// UpdateProfile enforces the raw size caps, sanitizes custom markup and
// writes every editable field.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, in models.UpdateProfileInput) (*models.Profile, error) {
	if utf8.RuneCountInString(in.CustomHTML) > models.MaxProfileHTMLLength {
		return nil, models.NewValidationError(
			fmt.Sprintf("Custom HTML cannot exceed %d characters", models.MaxProfileHTMLLength))
	}
	if utf8.RuneCountInString(in.CustomCSS) > models.MaxProfileCSSLength {
		return nil, models.NewValidationError(
			fmt.Sprintf("Custom CSS cannot exceed %d characters", models.MaxProfileCSSLength))
	}
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Bio = strings.TrimSpace(in.Bio)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.DisplayName = in.DisplayName
	profile.Bio = in.Bio
	profile.CustomHTML = s.sanitizeHTML(in.CustomHTML)
	profile.CustomCSS = s.sanitizeCSS(in.CustomCSS)
	// Escaping can lengthen HTML ("'" becomes "&#39;"), and the column cap
	// applies to what is stored. The CSS filter only removes text.
	if utf8.RuneCountInString(profile.CustomHTML) > models.MaxProfileHTMLLength {
		return nil, models.NewValidationError(
			fmt.Sprintf("Custom HTML exceeds %d characters once sanitized", models.MaxProfileHTMLLength))
	}
	profile.AvatarURL = trimOptional(in.AvatarURL)
	profile.UpdatedAt = s.now().UTC()

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) sanitizeHTML(raw string) string {
	clean := s.policy.HTML(raw)
	if clean != raw {
		observability.SanitizerStrips.WithLabelValues("html", "profile").Inc()
	}
	return clean
}

func (s *ProfileService) sanitizeCSS(raw string) string {
	clean := s.policy.CSS(raw)
	if clean != strings.TrimSpace(raw) {
		observability.SanitizerStrips.WithLabelValues("css", "profile").Inc()
	}
	return clean
}
