package main

import (
	"context"
	"flag"
	"log"

	"bites4life/internal/config"
	"bites4life/internal/db"
	"bites4life/internal/repository"
	"bites4life/internal/service"
)

func main() {
	source := flag.String("source", "riders.json", "JSON file path or http(s) URL holding [{\"name\": ...}]")
	flag.Parse()

	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Printf("Connected to %s database", cfg.DBDriver)

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB, false); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	created, err := service.NewAdminService(userRepo).EnsureSuperAdmin(ctx, cfg.SuperAdminEmail, cfg.SuperAdminPassword)
	if err != nil {
		log.Fatalf("Failed to ensure superadmin: %v", err)
	}
	if created {
		log.Printf("Seeded superadmin %q", cfg.SuperAdminEmail)
	}

	log.Printf("Loading riders from: %s", *source)
	riders, err := loadRiders(ctx, *source)
	if err != nil {
		log.Fatalf("Failed to load riders: %v", err)
	}
	log.Printf("Loaded %d riders", len(riders))

	riderService := service.NewRiderService(repository.NewRiderRepository(gormDB), service.RiderServiceOptions{
		Stamps:          service.NewStampFormatter(loc, cfg.TimeLayout),
		MaxCodeAttempts: cfg.CodeMaxAttempts,
	})

	log.Println("Seeding riders into database...")
	result, err := seedRiders(ctx, riderService, riders)
	if err != nil {
		log.Fatalf("Failed to seed riders: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New riders created: %d", len(result.Created))
	log.Printf("  - Existing or blank entries skipped: %d", result.Skipped)
	for name, code := range result.Created {
		log.Printf("    %s -> %s", name, code)
	}
}
