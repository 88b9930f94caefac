// Command seed fills the board database with demo data.
package main

import (
	"flag"
	"log"

	"mmorpgboard/internal/config"
	"mmorpgboard/internal/database"
	"mmorpgboard/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	replies := flag.Int("replies", 4, "Maximum replies per post")
	maxDays := flag.Int("days", 30, "Spread creation dates over this many days")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
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
	defer func() { _ = database.Close(db) }()

	log.Printf("Target: %d users, %d posts, clean=%v", *numUsers, *numPosts, *shouldClean)

	summary, err := seed.Seed(db, seed.Options{
		Users:          *numUsers,
		Posts:          *numPosts,
		RepliesPerPost: *replies,
		MaxDays:        *maxDays,
		Clean:          *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d posts, %d replies", summary.Users, summary.Posts, summary.Replies)
	log.Println("Demo users sign in with a one-time code sent to <username>@example.com")
}
