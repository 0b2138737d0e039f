// Command seed fills the database with demo users, profiles, follows, posts
// and messages.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"

	"yourspace/internal/config"
	"yourspace/internal/database"
	"yourspace/internal/middleware"
	"yourspace/internal/seed"
)

func main() {
	numUsers := flag.Int("users", seed.DefaultCounts.Users, "Number of users to create")
	numPosts := flag.Int("posts", seed.DefaultCounts.Posts, "Number of posts to create")
	numMessages := flag.Int("messages", seed.DefaultCounts.Messages, "Number of direct messages to create")
	follows := flag.Int("follows", seed.DefaultCounts.FollowsPerUser, "Accounts each user follows")
	maxDays := flag.Int("days", 90, "Spread timestamps over this many days")
	shouldClean := flag.Bool("clean", false, "Clear existing data before seeding")
	fast := flag.Bool("fast", false, "Skip password hashing; only the demo account can log in")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, seed.Options{SkipBcrypt: *fast, MaxDays: *maxDays})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	counts := seed.Counts{
		Users:          *numUsers,
		Posts:          *numPosts,
		Messages:       *numMessages,
		FollowsPerUser: *follows,
	}
	if err := s.Run(ctx, counts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	middleware.Logger.Info("seed complete",
		slog.String("demo_account", seed.DemoUsername),
		slog.String("password", seed.DemoPassword))
}
