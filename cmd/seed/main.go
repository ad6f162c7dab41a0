package main

import (
	"context"
	"log"
	"log/slog"

	"linkup-service/internal/adapters/database"
	"linkup-service/internal/config"
	"linkup-service/internal/friendship"
	"linkup-service/internal/user"
)

// Seeds a handful of users and relationships for local development.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("starting database seeding")

	db, err := database.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	ctx := context.Background()
	userRepo := user.NewRepository(db)
	friendshipRepo := friendship.NewRepository(db)

	seedUsers := []user.User{
		{Email: "john@example.com", Name: "John Doe", Company: "Acme", HomeCity: "Austin", CurrentCity: "Austin"},
		{Email: "amy@example.com", Name: "Amy Lee", Company: "Globex", HomeCity: "Seattle", CurrentCity: "Portland"},
		{Email: "sam@example.com", Name: "Sam Chen", HomeCity: "Denver", CurrentCity: "Denver"},
	}

	for i := range seedUsers {
		if _, err := userRepo.FindByEmail(ctx, seedUsers[i].Email); err == nil {
			slog.Info("seed user already exists", "email", seedUsers[i].Email)
			continue
		}
		if err := userRepo.Create(ctx, &seedUsers[i]); err != nil {
			log.Fatal("Failed to seed user:", err)
		}
		slog.Info("seeded user", "email", seedUsers[i].Email, "id", seedUsers[i].ID)
	}

	john, err := userRepo.FindByEmail(ctx, "john@example.com")
	if err != nil {
		log.Fatal("Failed to load seed user:", err)
	}
	amy, err := userRepo.FindByEmail(ctx, "amy@example.com")
	if err != nil {
		log.Fatal("Failed to load seed user:", err)
	}

	if _, err := friendshipRepo.FindByPair(ctx, john.ID, amy.ID); err != nil {
		edge := &friendship.Friendship{UserID: john.ID, FriendID: amy.ID, Status: friendship.StatusAccepted}
		if err := friendshipRepo.Create(ctx, edge); err != nil {
			log.Fatal("Failed to seed friendship:", err)
		}
		slog.Info("seeded friendship", "id", edge.ID)
	}

	slog.Info("seeding complete")
}
