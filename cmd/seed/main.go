// Command seed fills the database with demo data and registers feeds.
package main

import (
	"context"
	"flag"
	"log"

	"sharehub/internal/bootstrap"
	"sharehub/internal/config"
	"sharehub/internal/repository"
	"sharehub/internal/seed"
	"sharehub/internal/service"
)

func main() {
	numProfiles := flag.Int("profiles", 10, "Number of profiles to create")
	postsPer := flag.Int("posts", 3, "Posts per profile")
	maxComments := flag.Int("comments", 4, "Maximum top-level comments per post")
	maxDays := flag.Int("days", 60, "Spread post timestamps over this many days")
	randSeed := flag.Int64("seed", 0, "Random seed for a reproducible run (0 = clock)")
	admin := flag.String("admin", "", "Username of an extra admin profile")
	feedsPath := flag.String("feeds", "", "YAML feeds file to register")
	feedsOnly := flag.Bool("feeds-only", false, "Only register feeds, skip demo data")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	rt, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}
	defer func() { _ = rt.Close() }()

	if !*feedsOnly {
		sum, err := seed.NewSeeder(rt.DB, seed.Options{
			NumProfiles:     *numProfiles,
			PostsPerProfile: *postsPer,
			MaxComments:     *maxComments,
			MaxDays:         *maxDays,
			RandSeed:        *randSeed,
			AdminUsername:   *admin,
		}).Run(ctx)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		log.Printf("Seeded %s", sum)
	}

	if *feedsPath != "" {
		entries, err := seed.LoadFeedsFile(*feedsPath)
		if err != nil {
			log.Fatalf("Failed to load feeds: %v", err)
		}
		owner := cfg.RSSAuthorID
		if owner == "" {
			owner = cfg.DevAdminID
		}
		feeds := service.NewFeedService(repository.NewRssFeedRepository(rt.DB), nil)
		created, err := seed.SeedFeeds(ctx, feeds, owner, entries)
		if err != nil {
			log.Fatalf("Feed registration failed: %v", err)
		}
		log.Printf("Registered %d of %d feeds", created, len(entries))
	}
}
