// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"yourspace/internal/middleware"
	"yourspace/internal/models"
	"yourspace/internal/repository"
	"yourspace/internal/sanitize"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password every seeded account gets.
const DemoPassword = "password123"

// Options tune how the factory builds records.
type Options struct {
	DryRun     bool
	SkipBcrypt bool
	// MaxDays bounds how far back post and message timestamps spread.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db     *gorm.DB
	users  repository.UserRepository
	policy *sanitize.Policy
	opts   Options
	rng    *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
	hash   string
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	// #nosec G404: acceptable for seeding
	rng := rand.New(rand.NewSource(seed))
	f := &Factory{
		db:     db,
		policy: sanitize.NewPolicy(sanitize.WithExtraStyles(sanitize.ProfileStyles...)),
		opts:   opts,
		rng:    rng,
		nextID: 1000,
	}
	if db != nil {
		f.users = repository.NewUserRepository(db)
	}
	if f.opts.MaxDays <= 0 {
		f.opts.MaxDays = 90
	}
	return f
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	if f.opts.SkipBcrypt {
		f.hash = DemoPassword
		return f.hash, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash demo password: %w", err)
	}
	f.hash = string(hashed)
	return f.hash, nil
}

// pastTime returns a random moment within the configured window.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.rng.Int63n(int64(f.opts.MaxDays) * int64(24*time.Hour)))
	return time.Now().UTC().Add(-back)
}

// CreateUser persists a user together with a themed profile.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	username := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))
	if len(username) > models.MaxUsernameLength {
		username = username[:models.MaxUsernameLength]
	}
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Profile:      f.BuildProfile(),
	}
	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		middleware.Logger.Debug("[dry-run] CreateUser", slog.String("username", user.Username))
		return user, nil
	}

	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BuildProfile returns an unsaved profile with a random retro theme. The
// markup goes through the same sanitizer as user submitted profiles.
func (f *Factory) BuildProfile() *models.Profile {
	theme := themes[f.rng.Intn(len(themes))]
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())

	html := fmt.Sprintf(`<div class="box"><h2>%s</h2><p>%s</p><ul><li>Mood: %s</li><li>Listening to: %s</li></ul></div>`,
		theme.headline, gofakeit.Sentence(12), theme.mood, gofakeit.HipsterSentence(3))

	return &models.Profile{
		DisplayName: gofakeit.Name(),
		Bio:         gofakeit.Sentence(10),
		CustomHTML:  f.policy.HTML(html),
		CustomCSS:   f.policy.CSS(theme.css),
		AvatarURL:   &avatar,
	}
}

// BuildPost constructs an unsaved post with a timestamp inside the window.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:    user.ID,
		Content:   gofakeit.Paragraph(1, 3, 8, " "),
		CreatedAt: f.pastTime(),
	}
	if len(post.Content) > models.MaxPostContentLength {
		post.Content = post.Content[:models.MaxPostContentLength]
	}
	if f.rng.Float32() < 0.3 {
		media := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
		post.MediaURL = &media
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		middleware.Logger.Debug("[dry-run] CreatePostsBatch", slog.Int("posts", len(posts)))
		return nil
	}
	return f.db.WithContext(ctx).Omit("User").CreateInBatches(posts, 200).Error
}

// CreateFollow persists a follow edge. Duplicate edges are skipped.
func (f *Factory) CreateFollow(ctx context.Context, follower, followed *models.User) error {
	if follower.ID == followed.ID || f.opts.DryRun {
		return nil
	}
	edge := &models.Follow{FollowerID: follower.ID, FollowedID: followed.ID, CreatedAt: f.pastTime()}
	return f.db.WithContext(ctx).
		Where(models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}).
		FirstOrCreate(edge).Error
}

// CreateMessage persists a direct message. Older messages are marked read.
func (f *Factory) CreateMessage(ctx context.Context, sender, receiver *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	msg := &models.Message{
		SenderID:   sender.ID,
		ReceiverID: receiver.ID,
		Content:    gofakeit.Sentence(f.rng.Intn(12) + 3),
		SentAt:     f.pastTime(),
	}
	if time.Since(msg.SentAt) > 24*time.Hour {
		readAt := msg.SentAt.Add(time.Duration(f.rng.Intn(120)+1) * time.Minute)
		msg.IsRead = true
		msg.ReadAt = &readAt
	}
	for _, override := range overrides {
		override(msg)
	}

	if f.opts.DryRun {
		f.nextID++
		msg.ID = f.nextID
		return msg, nil
	}
	if err := f.db.WithContext(ctx).Omit("Sender", "Receiver").Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

type theme struct {
	headline string
	mood     string
	css      string
}

var themes = []theme{
	{
		headline: "Welcome 2 my page!!",
		mood:     "nostalgic",
		css:      `body { background: #000033; color: #ffccff; font-family: "Comic Sans MS", cursive; } .box { border: 2px dashed #ff66cc; padding: 8px; }`,
	},
	{
		headline: "Under construction",
		mood:     "busy",
		css:      `body { background: #ffff99; color: #333333; } h2 { color: #cc0000; text-align: center; }`,
	},
	{
		headline: "Top 8 coming soon",
		mood:     "social",
		css:      `body { background: #1a1a1a; color: #00ff00; font-family: monospace; } .box { border: 1px solid #00ff00; }`,
	},
	{
		headline: "Thanks 4 the add",
		mood:     "grateful",
		css:      `body { background: linear-gradient(#ccffff, #ffffff); color: #003366; } li { font-weight: bold; }`,
	},
}
