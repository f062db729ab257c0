// Command seed fills the database with built-in groups and demo data.
package main

import (
	"flag"
	"log"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	numComments := flag.Int("comments", defaults.NumComments, "Number of comments to create")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Authors each user follows")
	maxDays := flag.Int("days", defaults.MaxDays, "Spread post dates over this many days")
	randSeed := flag.Int64("seed", defaults.Seed, "Random seed; the same seed yields the same data")
	shouldClean := flag.Bool("clean", false, "Delete all posts, groups and users first")
	groupsOnly := flag.Bool("groups-only", false, "Only upsert the built-in groups")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() && *shouldClean {
		log.Fatal("Refusing to clean a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *groupsOnly {
		if err := seed.Groups(db); err != nil {
			log.Fatalf("Built-in group seeding failed: %v", err)
		}
		log.Println("Built-in groups are up to date.")
		return
	}

	sum, err := seed.Run(db, seed.Options{
		NumUsers:       *numUsers,
		NumPosts:       *numPosts,
		NumComments:    *numComments,
		FollowsPerUser: *follows,
		MaxDays:        *maxDays,
		Seed:           *randSeed,
		Clean:          *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d posts, %d comments, %d follows across %d groups.",
		sum.Users, sum.Posts, sum.Comments, sum.Follows, sum.Groups)
	log.Printf("All generated users have the password: %s", seed.DemoPassword)
}
