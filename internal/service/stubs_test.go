package service

import (
	"context"
	"errors"
	"time"

	"yourspace/internal/models"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn              func(context.Context, uint) (*models.User, error)
	getByUsernameFn        func(context.Context, string) (*models.User, error)
	getByEmailFn           func(context.Context, string) (*models.User, error)
	getByUsernameOrEmailFn func(context.Context, string) (*models.User, error)
	existsFn               func(context.Context, uint) (bool, error)
	createFn               func(context.Context, *models.User) error
	listFn                 func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsernameOrEmail(ctx context.Context, login string) (*models.User, error) {
	return s.getByUsernameOrEmailFn(ctx, login)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	return s.listFn(ctx, offset, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:              func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn:        func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByEmailFn:           func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameOrEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		existsFn:               func(_ context.Context, _ uint) (bool, error) { return true, nil },
		createFn:               func(_ context.Context, _ *models.User) error { return nil },
		listFn:                 func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn      func(context.Context, *models.Post) error
	getByIDFn     func(context.Context, uint) (*models.Post, error)
	getViewFn     func(context.Context, uint) (*models.PostView, error)
	deleteFn      func(context.Context, uint) error
	feedFn        func(context.Context, uint, int, int) ([]models.FeedEntry, error)
	listByUserFn  func(context.Context, uint, int, int) ([]models.PostView, error)
	countByUserFn func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetView(ctx context.Context, id uint) (*models.PostView, error) {
	return s.getViewFn(ctx, id)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Feed(ctx context.Context, viewerID uint, offset, limit int) ([]models.FeedEntry, error) {
	return s.feedFn(ctx, viewerID, offset, limit)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.PostView, error) {
	return s.listByUserFn(ctx, userID, offset, limit)
}
func (s *postRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:      func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:     func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getViewFn:     func(_ context.Context, id uint) (*models.PostView, error) { return &models.PostView{ID: id}, nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
		feedFn:        func(_ context.Context, _ uint, _, _ int) ([]models.FeedEntry, error) { return nil, nil },
		listByUserFn:  func(_ context.Context, _ uint, _, _ int) ([]models.PostView, error) { return nil, nil },
		countByUserFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn   func(context.Context, uint) (*models.Profile, error)
	getByUsernameFn func(context.Context, string) (*models.Profile, error)
	updateFn        func(context.Context, *models.Profile) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{ID: userID, UserID: userID}, nil
		},
		getByUsernameFn: func(_ context.Context, _ string) (*models.Profile, error) { return &models.Profile{}, nil },
		updateFn:        func(_ context.Context, _ *models.Profile) error { return nil },
	}
}

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	createFn        func(context.Context, *models.Message) error
	threadFn        func(context.Context, uint, uint) ([]models.Message, error)
	markReadFn      func(context.Context, uint, uint, time.Time) (int64, error)
	conversationsFn func(context.Context, uint) ([]models.ConversationSummary, error)
}

func (s *messageRepoStub) Create(ctx context.Context, msg *models.Message) error {
	return s.createFn(ctx, msg)
}
func (s *messageRepoStub) Thread(ctx context.Context, userID, otherUserID uint) ([]models.Message, error) {
	return s.threadFn(ctx, userID, otherUserID)
}
func (s *messageRepoStub) MarkRead(ctx context.Context, receiverID, senderID uint, at time.Time) (int64, error) {
	return s.markReadFn(ctx, receiverID, senderID, at)
}
func (s *messageRepoStub) Conversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	return s.conversationsFn(ctx, userID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:   func(_ context.Context, _ *models.Message) error { return nil },
		threadFn:   func(_ context.Context, _, _ uint) ([]models.Message, error) { return nil, nil },
		markReadFn: func(_ context.Context, _, _ uint, _ time.Time) (int64, error) { return 0, nil },
		conversationsFn: func(_ context.Context, _ uint) ([]models.ConversationSummary, error) {
			return nil, nil
		},
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn         func(context.Context, *models.Follow) error
	deleteFn         func(context.Context, uint, uint) (bool, error)
	existsFn         func(context.Context, uint, uint) (bool, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	listFollowersFn  func(context.Context, uint) ([]models.UserSummary, error)
	listFollowingFn  func(context.Context, uint) ([]models.UserSummary, error)
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followedID)
}
func (s *followRepoStub) Exists(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.existsFn(ctx, followerID, followedID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.listFollowersFn(ctx, userID)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	return s.listFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(_ context.Context, _ *models.Follow) error { return nil },
		deleteFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listFollowersFn:  func(_ context.Context, _ uint) ([]models.UserSummary, error) { return nil, nil },
		listFollowingFn:  func(_ context.Context, _ uint) ([]models.UserSummary, error) { return nil, nil },
	}
}

// errMessage returns the client-facing message of an AppError.
func errMessage(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
