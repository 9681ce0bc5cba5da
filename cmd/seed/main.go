// Command seed fills the configured database with generated users, posts,
// follows and likes.
package main

import (
	"context"
	"flag"
	"log"

	"postboard/internal/auth"
	"postboard/internal/config"
	"postboard/internal/database"
	"postboard/internal/seed"
)

func main() {
	preset := flag.String("preset", "small", "seed preset (tiny, small, demo, crowded)")
	clean := flag.Bool("clean", true, "clear existing rows before seeding")
	randSeed := flag.Int64("seed", 1, "random seed for generated content")
	flag.Parse()

	p, err := seed.LookupPreset(*preset)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	ctx := context.Background()
	if err := database.ApplySchema(ctx, db, cfg); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	creds := auth.NewCredentials(cfg.JWTSecret, cfg.TokenTTL(), cfg.BcryptCost)
	s := seed.NewSeeder(db, creds, *randSeed)

	if *clean {
		if err := s.Clean(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if _, err := s.Run(ctx, p); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	counts, err := seed.CountRows(ctx, db)
	if err != nil {
		log.Fatalf("Count failed: %v", err)
	}
	log.Printf("users=%d posts=%d follows=%d likes=%d",
		counts["users"], counts["posts"], counts["follows"], counts["likes"])
}
