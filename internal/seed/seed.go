package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"yourspace/internal/middleware"
	"yourspace/internal/models"

	"gorm.io/gorm"
)

// DemoUsername is the account every seeded user follows, so fresh
// installs start with a populated feed.
const DemoUsername = "tom"

// Counts sizes a seeding run.
type Counts struct {
	Users    int
	Posts    int
	Messages int
	// FollowsPerUser is how many random accounts each user follows.
	FollowsPerUser int
}

// DefaultCounts is used by the seed command when no flags are given.
var DefaultCounts = Counts{Users: 50, Posts: 200, Messages: 300, FollowsPerUser: 8}

// Seeder populates the database through a Factory.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// Run clears nothing; it adds users, a follow graph, posts and messages.
func (s *Seeder) Run(ctx context.Context, counts Counts) error {
	middleware.Logger.Info("seeding database",
		slog.Int("users", counts.Users),
		slog.Int("posts", counts.Posts),
		slog.Int("messages", counts.Messages))

	demo, err := EnsureDemoAccount(ctx, s.db)
	if err != nil {
		return err
	}

	users, err := s.SeedUsers(ctx, counts.Users)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := s.SeedFollowGraph(ctx, demo, users, counts.FollowsPerUser); err != nil {
		return fmt.Errorf("seed follows: %w", err)
	}
	if err := s.SeedPosts(ctx, append(users, demo), counts.Posts); err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	if err := s.SeedMessages(ctx, append(users, demo), counts.Messages); err != nil {
		return fmt.Errorf("seed messages: %w", err)
	}

	middleware.Logger.Info("database seeding completed")
	return nil
}

// SeedUsers creates n users with themed profiles. Username collisions are
// skipped rather than failing the run.
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		u, err := s.factory.CreateUser(ctx)
		if err != nil {
			if models.HasCode(err, models.CodeConflict) {
				middleware.Logger.Warn("skipping duplicate seed user", slog.String("error", err.Error()))
				continue
			}
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

// SeedFollowGraph makes every user follow the demo account plus up to
// perUser random others.
func (s *Seeder) SeedFollowGraph(ctx context.Context, demo *models.User, users []*models.User, perUser int) error {
	for _, u := range users {
		if demo != nil {
			if err := s.factory.CreateFollow(ctx, u, demo); err != nil {
				return err
			}
		}
		if len(users) < 2 {
			continue
		}
		for _, idx := range s.factory.rng.Perm(len(users))[:min(perUser, len(users))] {
			if err := s.factory.CreateFollow(ctx, u, users[idx]); err != nil {
				return err
			}
		}
	}
	return nil
}

// SeedPosts spreads n posts across users.
func (s *Seeder) SeedPosts(ctx context.Context, users []*models.User, n int) error {
	if len(users) == 0 || n <= 0 {
		return nil
	}
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		posts = append(posts, s.factory.BuildPost(author))
	}
	return s.factory.CreatePostsBatch(ctx, posts)
}

// SeedMessages creates n messages between random pairs.
func (s *Seeder) SeedMessages(ctx context.Context, users []*models.User, n int) error {
	if len(users) < 2 {
		return nil
	}
	for i := 0; i < n; i++ {
		a := users[s.factory.rng.Intn(len(users))]
		b := users[s.factory.rng.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}
		if _, err := s.factory.CreateMessage(ctx, a, b); err != nil {
			return err
		}
	}
	return nil
}

// ClearAll removes every row the application owns.
func (s *Seeder) ClearAll(ctx context.Context) error {
	middleware.Logger.Warn("clearing existing data")
	db := s.db.WithContext(ctx)
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE messages, follows, posts, profiles, users RESTART IDENTITY CASCADE`).Error
	}
	for _, model := range []any{&models.Message{}, &models.Follow{}, &models.Post{}, &models.Profile{}, &models.User{}} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// EnsureDemoAccount creates the demo account if it does not exist yet.
func EnsureDemoAccount(ctx context.Context, db *gorm.DB) (*models.User, error) {
	var existing models.User
	err := db.WithContext(ctx).Where("username = ?", DemoUsername).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up demo account: %w", err)
	}

	f := NewFactory(db, Options{})
	u, err := f.CreateUser(ctx, func(u *models.User) {
		u.Username = DemoUsername
		u.Email = DemoUsername + "@example.com"
		u.Profile.DisplayName = "Tom"
		u.Profile.Bio = "Everyone's first friend."
	})
	if err != nil {
		return nil, fmt.Errorf("create demo account: %w", err)
	}
	middleware.Logger.Info("demo account created", slog.String("username", u.Username))
	return u, nil
}
